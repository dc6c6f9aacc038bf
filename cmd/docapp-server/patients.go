package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docapp/docapp/internal/client"
	"github.com/docapp/docapp/internal/domain/patient"
	"github.com/docapp/docapp/internal/presenter"
)

// patientsCmd drives the screens against a running server through the API
// client at API_BASE_URL.
func patientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Browse and edit patients through the API",
	}
	cmd.AddCommand(patientsListCmd(), patientsShowCmd(), patientsEditCmd(), patientsVisitCmd())
	return cmd
}

func newAPIClient() (*client.Client, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return client.New(client.Options{
		BaseURL:  cfg.APIBaseURL,
		Timeout:  cfg.ClientTimeout,
		RetryMax: cfg.ClientRetryMax,
		Logger:   logger,
	}), nil
}

func patientsListCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patients with their last visit",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPIClient()
			if err != nil {
				return err
			}
			page := presenter.NewListPage(api)
			if err := page.Load(cmd.Context()); err != nil {
				return fmt.Errorf("load patients: %w", err)
			}
			page.SetQuery(search)
			renderPatients(cmd.OutOrStdout(), page.Filtered(), page.EmptyMessage())
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Show only patients whose name contains this text")
	return cmd
}

func patientsShowCmd() *cobra.Command {
	var tab string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a patient profile and visits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPIClient()
			if err != nil {
				return err
			}
			page := presenter.NewProfilePage(api, args[0])
			if err := page.SetTab(presenter.Tab(tab)); err != nil {
				return fmt.Errorf("%w: %q (want future, past or planned)", err, tab)
			}
			loadErr := page.Load(cmd.Context())
			v := page.View()
			if !v.Found {
				if client.IsNotFound(loadErr) {
					return errors.New("patient not found")
				}
				return fmt.Errorf("load patient: %w", loadErr)
			}
			renderProfile(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(presenter.TabPast), "Visits to show: future, past or planned")
	return cmd
}

func patientsEditCmd() *cobra.Command {
	var (
		name string
		age  int
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a patient's name or age",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("age") {
				return errors.New("nothing to change: pass --name and/or --age")
			}
			api, err := newAPIClient()
			if err != nil {
				return err
			}
			page := presenter.NewListPage(api)
			ctx := cmd.Context()
			if err := page.Load(ctx); err != nil {
				return fmt.Errorf("load patients: %w", err)
			}
			if err := editPatient(ctx, page, args[0], cmd.Flags().Changed("name"), name, cmd.Flags().Changed("age"), age); err != nil {
				return err
			}
			p := page.Selected()
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s, %d years\n", p.Name, p.Age)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().IntVar(&age, "age", 0, "New age in years")
	return cmd
}

func editPatient(ctx context.Context, page *presenter.ListPage, id string, setName bool, name string, setAge bool, age int) error {
	if err := page.Select(ctx, id); err != nil {
		if errors.Is(err, presenter.ErrUnknownPatient) {
			return errors.New("patient not found")
		}
		// History is not needed to edit.
		if page.Selected() == nil {
			return err
		}
	}
	if err := page.BeginEdit(); err != nil {
		return err
	}
	if setName {
		if err := page.SetName(name); err != nil {
			return err
		}
	}
	if setAge {
		if err := page.SetAge(age); err != nil {
			return err
		}
	}
	if err := page.Save(ctx); err != nil {
		return errors.New(page.Alert())
	}
	return nil
}

func patientsVisitCmd() *cobra.Command {
	var cons patient.Consultation
	cmd := &cobra.Command{
		Use:   "visit <id>",
		Short: "Record a consultation for a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPIClient()
			if err != nil {
				return err
			}
			created, err := recordVisit(cmd.Context(), api, args[0], &cons)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded visit on %s\n", created.Date)
			return nil
		},
	}
	cmd.Flags().StringVar(&cons.Date, "date", "", "Visit date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&cons.Doctor, "doctor", "", "Attending doctor")
	cmd.Flags().StringVar(&cons.Diagnosis, "diagnosis", "", "Diagnosis")
	cmd.Flags().StringVar(&cons.Notes, "notes", "", "Notes")
	cmd.MarkFlagRequired("date")
	return cmd
}

// recordVisit checks the patient exists first; the API accepts visits for
// any id.
func recordVisit(ctx context.Context, api *client.Client, id string, cons *patient.Consultation) (*patient.Consultation, error) {
	if _, err := api.GetPatient(ctx, id); err != nil {
		if client.IsNotFound(err) {
			return nil, errors.New("patient not found")
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}
	created, err := api.CreateConsultation(ctx, id, cons)
	if err != nil {
		return nil, fmt.Errorf("record visit: %w", err)
	}
	return created, nil
}
