package logger

var WithClock = withClock
