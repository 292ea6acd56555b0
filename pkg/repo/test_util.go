package repo

import (
	"testing"
)

func MockRepo(t testing.TB) *Repo {
	rep, err := Default(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return rep
}
