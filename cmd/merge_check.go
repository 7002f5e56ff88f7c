package main

import (
	"errors"
	"fmt"
	"io"

	"pagure/internal/gitrepo"
	"pagure/internal/merge"

	"github.com/spf13/cobra"
)

var errConflicts = errors.New("branches conflict")

// mergeCheckCommand evaluates a merge offline, without touching any ref.
type mergeCheckCommand struct {
	repo        string
	source      string
	target      string
	alwaysMerge bool
}

func (c *mergeCheckCommand) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "merge-check",
		Short: "Report how source would merge into target",
		Long: `Evaluate merging one branch of a bare repository into another and print
the outcome: NO_CHANGE, FFORWARD, MERGE or CONFLICTS with the conflicting paths.

Example:
  pagure merge-check --repo repos/pagure.git --source feature --target main`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&c.repo, "repo", "", "path to the bare repository")
	cmd.Flags().StringVar(&c.source, "source", "", "source branch or commit")
	cmd.Flags().StringVar(&c.target, "target", "", "target branch")
	cmd.Flags().BoolVar(&c.alwaysMerge, "always-merge", false, "report MERGE instead of FFORWARD")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")

	parent.AddCommand(cmd)
}

func (c *mergeCheckCommand) Run(out io.Writer) error {
	repo, err := gitrepo.Open(c.repo)
	if err != nil {
		return err
	}

	source, err := repo.ResolveRef(c.source)
	if err != nil {
		return err
	}
	target, err := repo.ResolveBranch(c.target)
	if err != nil {
		return err
	}

	outcome, err := merge.Evaluate(repo, source, target, merge.Options{AlwaysMerge: c.alwaysMerge})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, outcome.Kind)
	for _, p := range outcome.Conflicts {
		fmt.Fprintln(out, "  "+p)
	}

	if outcome.Kind == merge.Conflicting {
		return errConflicts
	}
	return nil
}
