package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/pawmatch/internal/profileform"
	"github.com/spf13/cobra"
)

var errInvalidSet = errors.New("--set expects field=value")

type editOptions struct {
	sets          []string
	checkGender   []string
	uncheckGender []string
	dryRun        bool
}

func newEditCmd(root *rootOptions) *cobra.Command {
	opts := &editOptions{}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change profile fields and submit them",
		Long: `Loads your profile into a local edit form, applies the requested changes in
order and submits the whole profile.

Fields: ` + strings.Join(profileform.Fields, ", "),
		Example: `  profilectl edit --set bio="Loves long walks" --set distance=25
  profilectl edit --check-gender female --uncheck-gender male`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEdit(cmd, root, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&opts.sets, "set", nil, "field=value to change, repeatable")
	flags.StringArrayVar(&opts.checkGender, "check-gender", nil, "gender to add to gender preference, repeatable")
	flags.StringArrayVar(&opts.uncheckGender, "uncheck-gender", nil, "gender to remove from gender preference, repeatable")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the edited profile without submitting")

	return cmd
}

func runEdit(cmd *cobra.Command, root *rootOptions, opts *editOptions) error {
	changes, err := opts.fieldChanges()
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return errors.New("nothing to change, use --set, --check-gender or --uncheck-gender")
	}

	logger := root.logger(cmd)
	client := root.client(logger)
	out := cmd.OutOrStdout()

	form := profileform.New(client, client, printNavigator{out: cmd.ErrOrStderr()}, logger)
	defer form.Close()

	ctx := cmd.Context()
	snap := form.Load(ctx)
	if snap.Error != "" {
		return errors.New(snap.Error)
	}

	snap, err = form.ApplyFields(changes)
	if err != nil {
		return err
	}
	if opts.dryRun {
		return printProfile(out, root.output, snap.Values)
	}

	snap, err = form.Submit(ctx)
	if err != nil {
		return err
	}
	if snap.Status != profileform.StatusNavigated {
		return fmt.Errorf("update rejected: %s", snap.Error)
	}

	return printProfile(out, root.output, snap.Values)
}

func (o *editOptions) fieldChanges() ([]profileform.FieldChange, error) {
	changes := make([]profileform.FieldChange, 0, len(o.sets)+len(o.checkGender)+len(o.uncheckGender))
	for _, raw := range o.sets {
		name, value, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: got %q", errInvalidSet, raw)
		}
		changes = append(changes, profileform.FieldChange{Name: strings.TrimSpace(name), Value: value})
	}
	for _, g := range o.checkGender {
		changes = append(changes, profileform.FieldChange{Name: profileform.FieldGenderPreference, Value: g, Checked: true})
	}
	for _, g := range o.uncheckGender {
		changes = append(changes, profileform.FieldChange{Name: profileform.FieldGenderPreference, Value: g})
	}
	return changes, nil
}
