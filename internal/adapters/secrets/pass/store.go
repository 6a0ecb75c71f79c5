package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/bnema/devicepool-cli/internal/ports"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnavailable = errors.New("pass command unavailable")
	ErrMultiline   = errors.New("pass secret must be a single line")
)

const storeDirEnv = "PASSWORD_STORE_DIR"

// request is one pass invocation.
type request struct {
	args  []string
	input string
	env   []string
}

type runFunc func(ctx context.Context, req request) (stdout string, stderr string, err error)

// Store keeps single-line secrets such as bearer tokens in the
// password-store (`pass`) CLI. Only the first line of an entry is read, so
// entries edited by hand may carry notes below the secret.
type Store struct {
	run      runFunc
	storeDir string
}

var _ ports.SecretStore = (*Store)(nil)

type Option func(*Store)

// WithStoreDir points pass at a store other than its default. An empty dir
// keeps the default.
func WithStoreDir(dir string) Option {
	return func(s *Store) {
		s.storeDir = strings.TrimSpace(dir)
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{run: runPassCommand}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("pass put %q: %w", key, ErrMultiline)
	}

	_, stderr, err := s.exec(ctx, value+"\n", "insert", "--echo", "--force", key)
	if err != nil {
		return formatError("put", key, err, stderr)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.exec(ctx, "", "show", key)
	if err != nil {
		if isNotInStore(stderr) {
			return "", fmt.Errorf("pass get %q: %w", key, domain.ErrSecretNotFound)
		}
		return "", formatError("get", key, err, stderr)
	}

	first, _, _ := strings.Cut(stdout, "\n")
	first = strings.TrimSuffix(first, "\r")
	if first == "" {
		return "", fmt.Errorf("pass get %q: empty entry: %w", key, domain.ErrSecretNotFound)
	}

	return first, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.exec(ctx, "", "rm", "--force", key)
	if err != nil {
		if isNotInStore(stderr) {
			return nil
		}
		return formatError("delete", key, err, stderr)
	}

	return nil
}

func (s *Store) exec(ctx context.Context, input string, args ...string) (string, string, error) {
	req := request{args: args, input: input}
	if s.storeDir != "" {
		req.env = []string{storeDirEnv + "=" + s.storeDir}
	}

	log.Debug().Strs("args", args).Str("store_dir", s.storeDir).Msg("pass command")
	return s.run(ctx, req)
}

func isNotInStore(stderr string) bool {
	return strings.Contains(stderr, "is not in the password store")
}

func runPassCommand(ctx context.Context, req request) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, req.args...)
	if req.input != "" {
		cmd.Stdin = strings.NewReader(req.input)
	}
	if len(req.env) > 0 {
		cmd.Env = append(os.Environ(), req.env...)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func formatError(op string, key string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pass %s %q: %w", op, key, err)
	}

	return fmt.Errorf("pass %s %q: %w: %s", op, key, err, stderr)
}
