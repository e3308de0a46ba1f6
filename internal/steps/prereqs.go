package steps

import (
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"

	xserrors "github.com/thoreinstein/xivshade/internal/errors"
	"github.com/thoreinstein/xivshade/internal/pipeline"
)

// Prereqs checks that the external tools the installer shells out to are on
// PATH. It cannot install them itself; a miss fails the run with the distro
// package names spelled out.
type Prereqs struct {
	tools []string
}

// NewPrereqs returns the step with the default tool list.
func NewPrereqs() *Prereqs {
	return &Prereqs{tools: []string{"git", "winetricks"}}
}

func (s *Prereqs) Name() string { return "prereqs" }

func (s *Prereqs) Check(env *pipeline.Env) (bool, error) {
	return len(s.missing()) == 0, nil
}

func (s *Prereqs) Mutates(env *pipeline.Env) []string { return nil }

func (s *Prereqs) Apply(env *pipeline.Env) error {
	missing := s.missing()
	if len(missing) == 0 {
		return nil
	}
	return errors.Wrapf(xserrors.ErrPrereqMissing,
		"%s (install with your package manager, e.g. apt install %[1]s / dnf install %[1]s / pacman -S %[1]s)",
		strings.Join(missing, " "))
}

func (s *Prereqs) Verify(env *pipeline.Env) error {
	if missing := s.missing(); len(missing) > 0 {
		return errors.Wrapf(xserrors.ErrPrereqMissing, "%s", strings.Join(missing, " "))
	}
	return nil
}

func (s *Prereqs) missing() []string {
	var missing []string
	for _, tool := range s.tools {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	return missing
}
