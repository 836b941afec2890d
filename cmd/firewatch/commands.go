package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"go-firewatch/internal/dashboard"
	"go-firewatch/internal/forms"
	"go-firewatch/internal/models"
	"go-firewatch/internal/notify"
)

// headless runs fn against a dashboard whose notices print to stdout.
func headless(c *cli.Command, fn func(ctrl *dashboard.Controller, out io.Writer) error) error {
	a, err := setup(c, false)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a.controller(a.cfg.Profile, a.logger, notify.NewWriter(os.Stdout), nil), os.Stdout)
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and remember the session for this profile",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, Usage: "account password"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return headless(c, func(ctrl *dashboard.Controller, out io.Writer) error {
				ctrl.EditForms(func(s *forms.Set) {
					s.Login = forms.Login{Username: c.String("username"), Password: c.String("password")}
				})
				if err := ctrl.Login(ctx); err != nil {
					return errors.New(ctrl.State().Auth.LoginError)
				}
				u := ctrl.Session().User
				fmt.Fprintf(out, "Logged in as %s (%s)\n", u.Username, u.Role)
				return nil
			})
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the session for this profile",
		Action: func(ctx context.Context, c *cli.Command) error {
			return headless(c, func(ctrl *dashboard.Controller, out io.Writer) error {
				if !ctrl.Session().LoggedIn() {
					fmt.Fprintln(out, "Not logged in")
					return nil
				}
				ctrl.Logout(ctx)
				fmt.Fprintln(out, "Logged out")
				return nil
			})
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the remembered session for this profile",
		Action: func(ctx context.Context, c *cli.Command) error {
			return headless(c, func(ctrl *dashboard.Controller, out io.Writer) error {
				s := ctrl.Session()
				if !s.LoggedIn() {
					fmt.Fprintln(out, "Not logged in")
					return nil
				}
				fmt.Fprintf(out, "%s (%s)\n", s.User.Username, s.User.Role)
				return nil
			})
		},
	}
}

func predictCommand() *cli.Command {
	return &cli.Command{
		Name:  "predict",
		Usage: "Run a custom fire risk prediction",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "wind", Value: forms.DefaultPrediction().WindSpeed, Usage: "wind speed in m/s"},
			&cli.StringFlag{Name: "temp", Value: forms.DefaultPrediction().Temperature, Usage: "temperature in °C"},
			&cli.StringFlag{Name: "humidity", Value: forms.DefaultPrediction().Humidity, Usage: "relative humidity in %"},
			&cli.BoolFlag{Name: "save", Usage: "save the result as a prediction record"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return headless(c, func(ctrl *dashboard.Controller, out io.Writer) error {
				ctrl.EditForms(func(s *forms.Set) {
					s.Prediction = forms.Prediction{
						WindSpeed:   c.String("wind"),
						Temperature: c.String("temp"),
						Humidity:    c.String("humidity"),
					}
				})
				p := ctrl.CalculateCustomPrediction(ctx)
				fmt.Fprintf(out, "Wind %g m/s, temperature %g °C, humidity %g %%\n", p.WindSpeed, p.Temperature, p.Humidity)
				fmt.Fprintf(out, "%s, predicted area %.2f km²\n", p.RiskLevel.Text(), p.PredictedArea)
				if c.Bool("save") {
					return ctrl.SavePrediction(ctx, p)
				}
				return nil
			})
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Print fire statistics",
		Action: func(ctx context.Context, c *cli.Command) error {
			return headless(c, func(ctrl *dashboard.Controller, out io.Writer) error {
				if err := ctrl.LoadStatData(ctx); err != nil {
					return err
				}
				cache := ctrl.State().Cache
				sum := cache.Summary
				fmt.Fprintf(out, "Monitor points: %d\nFire records: %d\nHigh risk areas last week: %d\nAverage fire area: %.2f km²\n",
					sum.MonitorPointsCount, sum.TotalFireRecords, sum.HighRiskAreasLastWeek, sum.AvgFireArea)
				for _, l := range models.RiskLevels {
					fmt.Fprintf(out, "%s: %d\n", l.Text(), cache.RiskStats[string(l)])
				}
				return nil
			})
		},
	}
}
