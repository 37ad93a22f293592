// Command duowebctl signs and verifies Duo Web tokens from the shell.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/shandysiswandi/duoweb/internal/pkg/clock"
	"github.com/shandysiswandi/duoweb/internal/pkg/duoweb"
	"github.com/shandysiswandi/duoweb/internal/pkg/uid"
)

var errVerificationFailed = cli.Exit("verification failed", 1)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		slog.Error("duowebctl failed", "error", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) && ec.ExitCode() != 0 {
		return ec.ExitCode()
	}
	return 1
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:  "duowebctl",
		Usage: "Sign and verify Duo Web two-factor tokens",
		Description: `An operator tool for the Duo Web signed request flow.

This tool can:
- Build the signed request handed to the Duo widget
- Verify a signed response posted back by the widget
- Generate an application key`,
		Version:   "1.0.0",
		Writer:    stdout,
		ErrWriter: stderr,
		// main owns the process exit.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:  "sign",
				Usage: "Build a signed request for a username",
				Flags: append(keyFlags(),
					&cli.StringFlag{
						Name:     "username",
						Usage:    "Username being authenticated",
						Required: true,
					},
					nowFlag(),
				),
				Action: signCommand,
			},
			{
				Name:  "verify",
				Usage: "Verify a signed response and print the username",
				Flags: append(keyFlags(),
					&cli.StringFlag{
						Name:     "response",
						Usage:    "Signed response posted by the widget",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Print the failure reason on stderr",
					},
					nowFlag(),
				),
				Action: verifyCommand,
			},
			{
				Name:  "genkey",
				Usage: "Generate a random application key",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "length",
						Usage: "Key length in characters",
						Value: duoweb.MinApplicationKeyLength,
					},
				},
				Action: genkeyCommand,
			},
		},
	}
}

func keyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "ikey",
			Usage:    "Integration key",
			EnvVars:  []string{"DUOWEB_DUO_INTEGRATION_KEY"},
			Required: true,
		},
		&cli.StringFlag{
			Name:     "skey",
			Usage:    "Secret key",
			EnvVars:  []string{"DUOWEB_DUO_SECRET_KEY"},
			Required: true,
		},
		&cli.StringFlag{
			Name:     "akey",
			Usage:    "Application key",
			EnvVars:  []string{"DUOWEB_DUO_APPLICATION_KEY"},
			Required: true,
		},
	}
}

func nowFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:  "now",
		Usage: "Current time as unix seconds (default: system clock)",
	}
}

func clockFrom(c *cli.Context) clock.Clocker {
	if c.IsSet("now") {
		return clock.NewFixedUnix(c.Int64("now"))
	}
	return clock.New()
}

func signCommand(c *cli.Context) error {
	sig, err := duoweb.SignRequest(duoweb.SigningRequest{
		IntegrationKey: c.String("ikey"),
		SecretKey:      c.String("skey"),
		ApplicationKey: c.String("akey"),
		Username:       c.String("username"),
	}, clockFrom(c).Now())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintln(c.App.Writer, sig)
	return nil
}

func verifyCommand(c *cli.Context) error {
	var opts []duoweb.VerifyOption
	if c.Bool("explain") {
		opts = append(opts, duoweb.WithReasonHook(func(reason error) {
			fmt.Fprintf(c.App.ErrWriter, "reason: %v\n", reason)
		}))
	}

	user, err := duoweb.VerifyResponse(duoweb.VerificationRequest{
		IntegrationKey: c.String("ikey"),
		SecretKey:      c.String("skey"),
		ApplicationKey: c.String("akey"),
		Response:       c.String("response"),
	}, clockFrom(c).Now(), opts...)
	if errors.Is(err, duoweb.ErrVerificationFailed) {
		return errVerificationFailed
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, user)
	return nil
}

func genkeyCommand(c *cli.Context) error {
	gen, err := uid.NewKeyGenerator(c.Int("length"), duoweb.MinApplicationKeyLength)
	if err != nil {
		return cli.Exit(fmt.Sprintf("length must be at least %d", duoweb.MinApplicationKeyLength), 1)
	}

	fmt.Fprintln(c.App.Writer, gen.Generate())
	return nil
}
