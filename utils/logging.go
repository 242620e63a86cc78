package utils

import (
	"io"
	"log"
)

var (
	Trace   *log.Logger
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
)

func init() {
	Init(io.Discard, io.Discard, io.Discard, io.Discard)
}

//Init the logging function
func Init(
	traceHandle io.Writer,
	infoHandle io.Writer,
	warningHandle io.Writer,
	errorHandle io.Writer) {

	Trace = log.New(traceHandle, "[*] ", 0)
	Info = log.New(infoHandle, "[+] ", 0)
	Warning = log.New(warningHandle,
		"[WARNING] ", 0)

	Error = log.New(errorHandle,
		"ERROR: ", log.Ldate|log.Ltime)
}

//Verbosity routes the loggers to out, verbose adds the trace output and debug adds warnings
func Verbosity(verbose, debug bool, out, errOut io.Writer) {
	trace, warning := io.Discard, io.Discard
	if verbose {
		trace = out
	}
	if debug {
		trace, warning = out, out
	}
	Init(trace, out, warning, errOut)
}
