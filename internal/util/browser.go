package util

import (
	"fmt"
	"os/exec"
	"runtime"
)

// startCommand 启动外部进程（测试中替换）
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// browserCommands 按优先级返回各平台打开 url 的命令
func browserCommands(goos, url string) [][]string {
	switch goos {
	case "windows":
		// rundll32 在 Windows 7 上比 cmd /c start 更稳定
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	default:
		cmds := [][]string{{"xdg-open", url}}
		for _, browser := range []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"} {
			cmds = append(cmds, []string{browser, url})
		}
		return cmds
	}
}

// OpenBrowser 打开默认浏览器
func OpenBrowser(url string) error {
	cmd := browserCommands(runtime.GOOS, url)[0]
	return startCommand(cmd[0], cmd[1:]...)
}

// OpenBrowserWithFallback 带降级方案的浏览器打开
// 依次尝试候选命令，全部失败时返回第一个错误
func OpenBrowserWithFallback(url string) error {
	var first error
	for _, cmd := range browserCommands(runtime.GOOS, url) {
		err := startCommand(cmd[0], cmd[1:]...)
		if err == nil {
			return nil
		}
		if first == nil {
			first = fmt.Errorf("open browser with %s: %w", cmd[0], err)
		}
	}
	return first
}
