//go:build windows

package gh

import (
	"os/exec"
)

func openBrowser(url string) error {
	return exec.Command("cmd", "/c", "start", url).Run()
}
