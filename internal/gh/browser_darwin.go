//go:build darwin

package gh

import (
	"os/exec"
)

func openBrowser(url string) error {
	return exec.Command("open", url).Run()
}
