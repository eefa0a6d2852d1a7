package main

import (
	"os/exec"
	"runtime"

	"github.com/dreschagin/prompt-server/pkg/logger"
)

func browserCommand(goos, url string) (string, []string, bool) {
	switch goos {
	case "darwin":
		return "open", []string{url}, true
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, true
	case "windows":
		return "cmd", []string{"/c", "start", url}, true
	default:
		return "", nil, false
	}
}

// openBrowser открывает url в браузере по умолчанию и не ждет завершения процесса
func openBrowser(url string, log *logger.Logger) {
	name, args, ok := browserCommand(runtime.GOOS, url)
	if !ok {
		log.Warn("Cannot open browser on this platform", "os", runtime.GOOS, "url", url)
		return
	}

	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		log.Warn("Failed to open browser", "url", url, "error", err.Error())
		return
	}

	// Не оставляем zombie процесс
	go func() { _ = cmd.Wait() }()
}
