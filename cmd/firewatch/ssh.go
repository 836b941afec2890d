package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/urfave/cli/v3"
)

const (
	defaultPort = 23234
	defaultKeys = "authorized_keys"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the dashboard over SSH without a local terminal",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: defaultPort, Usage: "SSH port to listen on"},
			&cli.StringFlag{Name: "keys", Value: defaultKeys, Usage: "path to authorized_keys file"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServe(ctx, c, int(c.Int("port")), c.String("keys"))
		},
	}
}

// newSSHServer gives every SSH session its own dashboard under the profile
// "ssh-<user>", so remote users never share a persisted session.
func newSSHServer(a *app, port int, authKeysPath string) (*ssh.Server, error) {
	return wish.NewServer(
		wish.WithAddress(fmt.Sprintf(":%d", port)),
		wish.WithHostKeyPath(".ssh/id_ed25519"),

		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			data, err := os.ReadFile(authKeysPath)
			if err != nil {
				a.logger.Warn("read authorized keys", "path", authKeysPath, "error", err)
				return false
			}
			return isKeyAllowed(data, key)
		}),

		wish.WithMiddleware(
			bm.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				profile := "ssh-" + s.User()
				a.logger.Info("ssh session opened", "user", s.User(), "remote", s.RemoteAddr().String())
				m, unsubscribe := a.model(s.Context(), profile)
				go func() {
					<-s.Context().Done()
					unsubscribe()
					a.logger.Info("ssh session closed", "user", s.User())
				}()
				return m, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			activeterm.Middleware(),
		),
	)
}

func serveSSH(ctx context.Context, logger *slog.Logger, s *ssh.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("ssh server listening", "addr", s.Addr)
		errCh <- s.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	fmt.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

func isKeyAllowed(authFileData []byte, incomingKey ssh.PublicKey) bool {
	for len(authFileData) > 0 {
		allowedKey, _, _, rest, err := ssh.ParseAuthorizedKey(authFileData)
		if err != nil {
			return false
		}

		if ssh.KeysEqual(allowedKey, incomingKey) {
			return true
		}

		authFileData = rest
	}
	return false
}
