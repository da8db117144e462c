// Package console is the interactive front end: a login screen followed by
// the menu of the authenticated role. It only reads input, calls the
// directory service and prints; no record logic lives here.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/ehr/clinicdesk/internal/domain/directory"
	"github.com/ehr/clinicdesk/internal/platform/auth"
)

// outcome is what a menu returns to the session loop.
type outcome int

const (
	logout outcome = iota
	quit
)

type Console struct {
	in    *bufio.Reader
	out   io.Writer
	fd    int
	dir   *directory.Service
	authn *auth.Authenticator
	log   zerolog.Logger
}

// New returns a Console reading from in and writing to out. When in is a
// terminal, passwords are read without echo.
func New(in io.Reader, out io.Writer, dir *directory.Service, authn *auth.Authenticator, logger zerolog.Logger) *Console {
	c := &Console{
		in:    bufio.NewReader(in),
		out:   out,
		fd:    -1,
		dir:   dir,
		authn: authn,
		log:   logger,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.fd = int(f.Fd())
	}
	return c
}

// Run alternates between the login screen and role menus until the user
// exits, input ends or ctx is cancelled. End of input is a normal exit.
func (c *Console) Run(ctx context.Context) error {
	for {
		id, role, err := c.login(ctx)
		if err != nil {
			return endOfInput(err)
		}

		var next outcome
		switch role {
		case auth.RolePatient:
			next, err = c.patientMenu(ctx, id)
		case auth.RoleDoctor:
			next, err = c.doctorMenu(ctx, id)
		case auth.RoleAdmin:
			next, err = c.adminMenu(ctx)
		}
		if err != nil {
			return endOfInput(err)
		}
		c.log.Info().Str("id", id).Str("role", string(role)).Msg("logged out")
		if next == quit {
			return nil
		}
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Console) login(ctx context.Context) (string, auth.Role, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}
		banner(c.out, "Login")
		id, err := c.prompt("ID: ")
		if err != nil {
			return "", "", err
		}
		secret, err := c.password("Password: ")
		if err != nil {
			return "", "", err
		}

		role, err := c.authn.Authenticate(ctx, strings.TrimSpace(id), secret)
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			fmt.Fprintln(c.out, "Invalid credentials, please try again.")
			continue
		case err != nil:
			return "", "", err
		}
		fmt.Fprintf(c.out, "%s login successful.\n", roleTitle(role))
		return strings.TrimSpace(id), role, nil
	}
}

func roleTitle(r auth.Role) string {
	switch r {
	case auth.RolePatient:
		return "Patient"
	case auth.RoleDoctor:
		return "Doctor"
	}
	return "Administrator"
}

// -- Input --

// readLine returns the next line without its terminator. A final line
// without a newline is returned before io.EOF.
func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	return c.readLine()
}

func (c *Console) password(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if c.fd < 0 {
		return c.readLine()
	}
	b, err := term.ReadPassword(c.fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// -- Menus --

type action struct {
	label string
	run   func(ctx context.Context) error
	next  outcome
}

// menu shows actions until one of them ends the menu. Errors from an action
// are reported and the menu is shown again; only input and context errors
// leave the loop.
func (c *Console) menu(ctx context.Context, title string, actions []action) (outcome, error) {
	for {
		if err := ctx.Err(); err != nil {
			return quit, err
		}
		banner(c.out, title)
		for i, a := range actions {
			fmt.Fprintf(c.out, "%d. %s\n", i+1, a.label)
		}
		choice, err := c.prompt(fmt.Sprintf("\nPlease select an option (1-%d): ", len(actions)))
		if err != nil {
			return quit, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(choice))
		if err != nil || n < 1 || n > len(actions) {
			fmt.Fprintf(c.out, "Invalid input. Please enter a number between 1 and %d.\n", len(actions))
			continue
		}

		a := actions[n-1]
		if a.run == nil {
			if a.next == quit {
				fmt.Fprintln(c.out, "Exiting system...")
			} else {
				fmt.Fprintln(c.out, "Exiting to login...")
			}
			return a.next, nil
		}
		if err := a.run(ctx); err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return quit, err
			}
			c.log.Error().Err(err).Str("action", a.label).Msg("menu action failed")
			fmt.Fprintf(c.out, "An error occurred: %v\n", err)
		}
	}
}
