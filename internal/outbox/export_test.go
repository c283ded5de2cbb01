package outbox

var Truncate = truncate
