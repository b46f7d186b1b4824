package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r recorder) Phase() Phase { return r.phase }

func (r recorder) Update(time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunner_PhaseOrderThenRegistrationOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"report", PhasePostUpdate, &log})
	r.Register(recorder{"combat", PhaseUpdate, &log})
	r.Register(recorder{"input-a", PhaseInput, &log})
	r.Register(recorder{"dispatch", PhasePreUpdate, &log})
	r.Register(recorder{"input-b", PhaseInput, &log})

	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"input-a", "input-b", "dispatch", "combat", "report"}, log)

	log = log[:0]
	r.TickPhase(PhaseInput, time.Millisecond)
	assert.Equal(t, []string{"input-a", "input-b"}, log)
}

func TestRunner_RegisterAfterTickResorts(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"combat", PhaseUpdate, &log})
	r.Tick(0)
	r.Register(recorder{"input", PhaseInput, &log})

	log = log[:0]
	r.Tick(0)
	assert.Equal(t, []string{"input", "combat"}, log)
}
