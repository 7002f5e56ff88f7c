package main

import (
	"bytes"
	"testing"

	"pagure/internal/gitrepo/gitrepotest"

	"github.com/stretchr/testify/require"
)

func TestMergeCheck(t *testing.T) {
	repo := gitrepotest.New(t)
	base := repo.Commit("main", map[string]string{"f.txt": "1\n2\n3\n"})
	repo.Branch("feature", base)
	repo.Commit("feature", map[string]string{"new.txt": "x\n"})

	var out bytes.Buffer
	cmd := &mergeCheckCommand{repo: repo.Path(), source: "feature", target: "main"}
	require.NoError(t, cmd.Run(&out))
	require.Equal(t, "FFORWARD\n", out.String())

	repo.Commit("feature", map[string]string{"f.txt": "1\nfeature\n3\n"})
	repo.Commit("main", map[string]string{"f.txt": "1\nmain\n3\n"})

	out.Reset()
	require.ErrorIs(t, cmd.Run(&out), errConflicts)
	require.Equal(t, "CONFLICTS\n  f.txt\n", out.String())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	require.Subset(t, names, []string{"serve", "migrate", "merge-check"})
}
