// Package launcher execs the interactive SSH session through the bastion
// proxy. The core only depends on its attempt outcome; everything here is a
// thin collaborator around os/exec.
package launcher

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/PAPAMICA/wallix-ssh/internal/models"
)

// interactiveAccount is the bastion-side account name used with -i.
const interactiveAccount = "Interactive"

// bashrcRemote, when listed in the deploy files, is used as the remote shell
// rcfile instead of a plain login shell.
const bashrcRemote = ".bashrc_remote"

// Options select how the session is established.
type Options struct {
	// Interactive connects with the bastion's Interactive account instead
	// of the configured user.
	Interactive bool
	// NoDeploy skips pushing dotfiles to the remote host.
	NoDeploy bool
}

// Launcher builds and runs SSH commands against one bastion.
type Launcher struct {
	username    string
	bastionHost string
	deployFiles []string
	scriptDir   string
	logger      *slog.Logger
}

// New returns a launcher for the given bastion account. deployFiles are file
// names resolved under ~/.sshtools.
func New(username, bastionHost string, deployFiles []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	home, _ := os.UserHomeDir()
	return &Launcher{
		username:    username,
		bastionHost: bastionHost,
		deployFiles: deployFiles,
		scriptDir:   filepath.Join(home, ".sshtools"),
		logger:      logger,
	}
}

// Target renders the Wallix proxy target: account@device:SSH:user@bastion.
func (l *Launcher) Target(m models.Machine, opts Options) string {
	account := l.username
	if opts.Interactive {
		account = interactiveAccount
	}
	return fmt.Sprintf("%s@%s:SSH:%s@%s", account, m.Name, l.username, l.bastionHost)
}

// Launch runs the SSH session with stdio attached to the current terminal
// and blocks until it ends.
func (l *Launcher) Launch(m models.Machine, opts Options) error {
	l.logger.Info("connecting", "machine", m.Name)

	args := []string{"-tt", "-A", "-p", "22", l.Target(m, opts)}
	if cmd := l.remoteCommand(opts); cmd != "" {
		args = append(args, cmd)
	}

	ssh := exec.Command("ssh", args...)
	ssh.Stdin = os.Stdin
	ssh.Stdout = os.Stdout
	ssh.Stderr = os.Stderr
	if err := ssh.Run(); err != nil {
		return fmt.Errorf("ssh session failed: %w", err)
	}
	return nil
}

// remoteCommand builds the command run on the remote host. With file
// deployment enabled, each dotfile travels gzip-compressed and
// base64-encoded inside the command line and is unpacked into /tmp before
// the shell starts.
func (l *Launcher) remoteCommand(opts Options) string {
	if opts.NoDeploy || opts.Interactive || len(l.deployFiles) == 0 {
		return ""
	}

	var parts []string
	hasBashrc := false
	for _, name := range l.deployFiles {
		encoded, err := l.encodeFile(name)
		if err != nil {
			l.logger.Warn("skipping deploy file", "file", name, "error", err)
			continue
		}
		parts = append(parts, fmt.Sprintf("echo '%s' | base64 -d | gunzip > /tmp/%s", encoded, name))
		if name == bashrcRemote {
			hasBashrc = true
		}
	}

	if len(parts) == 0 {
		return "bash -l"
	}
	if hasBashrc {
		parts = append(parts, "bash --rcfile /tmp/"+bashrcRemote)
	} else {
		parts = append(parts, "bash -l")
	}
	return strings.Join(parts, " && ")
}

func (l *Launcher) encodeFile(name string) (string, error) {
	content, err := os.ReadFile(filepath.Join(l.scriptDir, name))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(content); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
