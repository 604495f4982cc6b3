package collector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// Remote collects logs from another host over SSH by running journalctl
// there. The connection is established lazily and reused for any follow-up
// commands (the Docker collector shares it).
type Remote struct {
	Host    string
	User    string
	Port    int
	KeyFile string

	// PassphrasePrompt is consulted when the key is encrypted. Nil means
	// encrypted keys fail with an error.
	PassphrasePrompt func(keyPath string) (string, error)

	client *ssh.Client
	logger *slog.Logger
}

// NewRemote creates a remote collector for the given host.
func NewRemote(host, user string, port int, keyFile string, logger *slog.Logger) *Remote {
	if port == 0 {
		port = 22
	}
	return &Remote{Host: host, User: user, Port: port, KeyFile: keyFile, logger: logger}
}

// Connect establishes the SSH connection if one is not already open.
func (r *Remote) Connect(ctx context.Context) error {
	if r.client != nil {
		return nil
	}
	if r.Host == "" || r.User == "" {
		return errors.New("remote collection requires both host and user")
	}

	auth, err := r.authMethods()
	if err != nil {
		return err
	}

	cfg := &ssh.ClientConfig{
		User: r.User,
		Auth: auth,
		// Matches the accept-new posture of the tool this replaces; host key
		// pinning is the operator's job via ssh-agent setups.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         15 * time.Second,
	}

	addr := net.JoinHostPort(r.Host, fmt.Sprintf("%d", r.Port))
	r.logger.Debug("connecting over ssh", "addr", addr, "user", r.User)

	dialer := net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", r.Host, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to %s: %w", r.Host, err)
	}

	r.client = ssh.NewClient(sshConn, chans, reqs)
	return nil
}

// authMethods builds the auth chain: explicit key file when given, otherwise
// the default private keys in ~/.ssh.
func (r *Remote) authMethods() ([]ssh.AuthMethod, error) {
	paths := []string{}
	if r.KeyFile != "" {
		paths = append(paths, expandHome(r.KeyFile))
	} else if home, err := os.UserHomeDir(); err == nil {
		for _, name := range []string{"id_ed25519", "id_rsa"} {
			paths = append(paths, filepath.Join(home, ".ssh", name))
		}
	}

	var signers []ssh.Signer
	for _, path := range paths {
		signer, err := r.loadKey(path)
		if err != nil {
			if r.KeyFile != "" {
				return nil, err
			}
			continue
		}
		signers = append(signers, signer)
	}

	if len(signers) == 0 {
		return nil, fmt.Errorf("no usable SSH key found")
	}
	return []ssh.AuthMethod{ssh.PublicKeys(signers...)}, nil
}

func (r *Remote) loadKey(path string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err == nil {
		return signer, nil
	}

	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) && r.PassphrasePrompt != nil {
		passphrase, perr := r.PassphrasePrompt(path)
		if perr != nil {
			return nil, perr
		}
		return ssh.ParsePrivateKeyWithPassphrase(data, []byte(passphrase))
	}

	return nil, fmt.Errorf("failed to load SSH key: %w", err)
}

// Collect runs journalctl on the remote host for the lookback window.
func (r *Remote) Collect(ctx context.Context, lookback time.Duration) ([]string, error) {
	stdout, stderr, err := r.Run(ctx, fmt.Sprintf("journalctl --since '%s'", sinceArg(lookback)))
	if err != nil {
		return nil, fmt.Errorf("failed to get remote logs: %w", err)
	}
	if stderr != "" {
		r.logger.Warn("remote journalctl stderr", "output", strings.TrimSpace(stderr))
	}
	return splitLines(stdout), nil
}

// Run executes one command on the remote host and returns its output. The
// context bounds the whole execution.
func (r *Remote) Run(ctx context.Context, command string) (string, string, error) {
	if err := r.Connect(ctx); err != nil {
		return "", "", err
	}

	session, err := r.client.NewSession()
	if err != nil {
		return "", "", fmt.Errorf("failed to open SSH session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case <-ctx.Done():
		// Closing the session unblocks Run.
		session.Close()
		return stdout.String(), stderr.String(), ctx.Err()
	case err := <-done:
		return stdout.String(), stderr.String(), err
	}
}

// Close tears down the SSH connection.
func (r *Remote) Close() error {
	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
