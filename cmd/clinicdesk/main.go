package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ehr/clinicdesk/internal/config"
	"github.com/ehr/clinicdesk/internal/console"
	"github.com/ehr/clinicdesk/internal/domain/directory"
	"github.com/ehr/clinicdesk/internal/domain/identity"
	"github.com/ehr/clinicdesk/internal/domain/scheduling"
	"github.com/ehr/clinicdesk/internal/platform/auth"
	"github.com/ehr/clinicdesk/internal/platform/flatfile"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(loadApp).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app is everything a command needs, wired over one filesystem.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	dir   *directory.Service
	authn *auth.Authenticator
}

// loader builds the app for a command about to run.
type loader func(cmd *cobra.Command) (*app, error)

func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return newApp(cfg, afero.NewOsFs(), logger), nil
}

// applyFlags lets --data-dir win over DATA_DIR.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if f := cmd.Flags().Lookup("data-dir"); f != nil && f.Changed {
		cfg.DataDir = f.Value.String()
	}
}

func newLogger(cfg *config.Config, w io.Writer) (zerolog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return zerolog.Nop(), err
	}
	logger := zerolog.New(w).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	}
	return logger.Level(level).With().Str("session_id", uuid.NewString()).Logger(), nil
}

func newApp(cfg *config.Config, fsys afero.Fs, logger zerolog.Logger) *app {
	reg := flatfile.NewRegistry(fsys, logger)

	patients := reg.Table(cfg.Path(cfg.PatientFile), identity.PersonColumns)
	doctors := reg.Table(cfg.Path(cfg.DoctorFile), identity.PersonColumns)
	people := identity.NewService(
		identity.NewPersonRepoFile(patients, identity.KindPatient),
		identity.NewPersonRepoFile(doctors, identity.KindDoctor),
		logger,
	)
	sched := scheduling.NewService(
		scheduling.NewRegistrationRepoFile(reg.Table(cfg.Path(cfg.RegistrationFile), scheduling.RegistrationColumns)),
		scheduling.NewAppointmentRepoFile(reg.Table(cfg.Path(cfg.AppointmentFile), scheduling.AppointmentColumns)),
		logger,
	)
	authn := auth.NewAuthenticator(
		reg.Table(cfg.Path(cfg.PatientFile), auth.CredentialColumns),
		reg.Table(cfg.Path(cfg.DoctorFile), auth.CredentialColumns),
		reg.Table(cfg.Path(cfg.AdminFile), auth.CredentialColumns),
		logger,
	)

	return &app{
		cfg:   cfg,
		log:   logger,
		dir:   directory.NewService(people, sched),
		authn: authn,
	}
}

func newRootCmd(load loader) *cobra.Command {
	root := &cobra.Command{
		Use:          "clinicdesk",
		Short:        "Clinic records desk for patients, doctors and administrators",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, load)
		},
	}
	root.PersistentFlags().String("data-dir", "", "Directory holding the record files (overrides DATA_DIR)")

	root.AddCommand(sessionCmd(load))
	root.AddCommand(personCmd(load, identity.KindDoctor))
	root.AddCommand(personCmd(load, identity.KindPatient))
	root.AddCommand(adminCmd(load))
	root.AddCommand(appointmentCmd(load))
	return root
}

func sessionCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Start an interactive login session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, load)
		},
	}
}

func runSession(cmd *cobra.Command, load loader) error {
	a, err := load(cmd)
	if err != nil {
		return err
	}
	a.log.Info().Str("data_dir", a.cfg.DataDir).Msg("session started")
	c := console.New(cmd.InOrStdin(), cmd.OutOrStdout(), a.dir, a.authn, a.log)
	if err := c.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		a.log.Error().Err(err).Msg("session ended with error")
		return err
	}
	a.log.Info().Msg("session ended")
	return nil
}

// -- Records --

func personCmd(load loader, kind identity.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Manage %s records", kind),
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Add a %s and print the generated ID and password", kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			p := &identity.Person{}
			p.FirstName, _ = cmd.Flags().GetString("first-name")
			p.LastName, _ = cmd.Flags().GetString("last-name")
			p.Email, _ = cmd.Flags().GetString("email")
			p.Phone, _ = cmd.Flags().GetString("phone")
			p.StreetNumber, _ = cmd.Flags().GetString("street-number")
			p.Street, _ = cmd.Flags().GetString("street")
			p.City, _ = cmd.Flags().GetString("city")
			p.State, _ = cmd.Flags().GetString("state")

			if err := a.dir.AddPerson(cmd.Context(), kind, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ID: %s\nPassword: %s\n", p.ID, p.Secret)
			return nil
		},
	}
	addCmd.Flags().String("first-name", "", "First name")
	addCmd.Flags().String("last-name", "", "Last name")
	addCmd.Flags().String("email", "", "Email address")
	addCmd.Flags().String("phone", "", "Phone number")
	addCmd.Flags().String("street-number", "", "Street number")
	addCmd.Flags().String("street", "", "Street")
	addCmd.Flags().String("city", "", "City")
	addCmd.Flags().String("state", "", "State")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List every %s", kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			people, err := a.dir.ListAllOfKind(cmd.Context(), kind)
			if err != nil {
				return err
			}
			return console.PersonTable(cmd.OutOrStdout(), people)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: fmt.Sprintf("Show one %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			p, err := a.dir.FindPersonByID(cmd.Context(), kind, args[0])
			if err != nil {
				return err
			}
			console.PersonDetails(cmd.OutOrStdout(), kind, p)
			return nil
		},
	}

	cmd.AddCommand(addCmd, listCmd, showCmd)
	return cmd
}

func adminCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator credentials",
	}
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create an administrator and print the generated ID and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			cred, err := a.authn.AddAdmin(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ID: %s\nPassword: %s\n", cred.ID, cred.Secret)
			return nil
		},
	}
	cmd.AddCommand(addCmd)
	return cmd
}

func appointmentCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointment",
		Short: "Inspect appointments",
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the appointments of one patient or one doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			patientID, _ := cmd.Flags().GetString("patient")
			doctorID, _ := cmd.Flags().GetString("doctor")
			kind, id := identity.KindPatient, patientID
			switch {
			case patientID != "" && doctorID != "":
				return fmt.Errorf("--patient and --doctor are mutually exclusive")
			case doctorID != "":
				kind, id = identity.KindDoctor, doctorID
			case patientID == "":
				return fmt.Errorf("one of --patient or --doctor is required")
			}

			a, err := load(cmd)
			if err != nil {
				return err
			}
			views, err := a.dir.AppointmentHistory(cmd.Context(), kind, id)
			if err != nil {
				return err
			}
			return console.AppointmentTable(cmd.OutOrStdout(), views)
		},
	}
	listCmd.Flags().String("patient", "", "Patient ID")
	listCmd.Flags().String("doctor", "", "Doctor ID")
	cmd.AddCommand(listCmd)
	return cmd
}
