package archive

import (
	"strconv"
	"syscall"
)

// signalName maps a signal number to its conventional name for error
// messages.
var signalName = map[int]string{
	int(syscall.SIGHUP):  "SIGHUP",
	int(syscall.SIGINT):  "SIGINT",
	int(syscall.SIGQUIT): "SIGQUIT",
	int(syscall.SIGILL):  "SIGILL",
	int(syscall.SIGTRAP): "SIGTRAP",
	int(syscall.SIGABRT): "SIGABRT",
	int(syscall.SIGBUS):  "SIGBUS",
	int(syscall.SIGFPE):  "SIGFPE",
	int(syscall.SIGKILL): "SIGKILL",
	int(syscall.SIGUSR1): "SIGUSR1",
	int(syscall.SIGSEGV): "SIGSEGV",
	int(syscall.SIGUSR2): "SIGUSR2",
	int(syscall.SIGPIPE): "SIGPIPE",
	int(syscall.SIGALRM): "SIGALRM",
	int(syscall.SIGTERM): "SIGTERM",
}

func nameOfSignal(n int) string {
	if name, ok := signalName[n]; ok {
		return name
	}
	return "SIG" + strconv.Itoa(n)
}
