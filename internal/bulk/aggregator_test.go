package bulk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jira-skills/internal/domain"
)

// recorder is an Operation that remembers which targets it saw and fails
// with the configured error for selected ones.
type recorder struct {
	calls []string
	fail  map[string]error
}

func (r *recorder) op(_ context.Context, target string) error {
	r.calls = append(r.calls, target)
	return r.fail[target]
}

func existsFor(keys ...string) ExistenceCheck {
	set := map[string]bool{}
	for _, k := range keys {
		set[k] = true
	}
	return func(_ context.Context, target string) (bool, error) {
		return set[target], nil
	}
}

func TestRunContinuesPastBusinessFailure(t *testing.T) {
	rec := &recorder{fail: map[string]error{
		"B": domain.NewNotFoundError("issue B"),
	}}

	sum, err := Run(context.Background(), []string{"A", "B", "C"}, rec.op, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, rec.calls)
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.Succeeded)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 0, sum.Skipped)
	require.Len(t, sum.Failures, 1)
	assert.Equal(t, "B", sum.Failures[0].Target)
	assert.Contains(t, sum.Failures[0].Reason, "issue B")
	assert.True(t, sum.Consistent())
	assert.True(t, sum.Complete())
	assert.NotEmpty(t, sum.RunID)
}

func TestRunOutcomesKeepInputOrder(t *testing.T) {
	rec := &recorder{fail: map[string]error{
		"C": domain.NewValidationError("bad C"),
		"A": domain.NewPermissionError("edit A"),
	}}

	sum, err := Run(context.Background(), []string{"C", "B", "A"}, rec.op, Options{})
	require.NoError(t, err)

	var order []string
	for _, o := range sum.Outcomes {
		order = append(order, o.Target)
	}
	assert.Equal(t, []string{"C", "B", "A"}, order)
	assert.Equal(t, []Failure{
		{Target: "C", Reason: sum.Failures[0].Reason},
		{Target: "A", Reason: sum.Failures[1].Reason},
	}, sum.Failures)
}

func TestRunSkipExisting(t *testing.T) {
	rec := &recorder{}
	sum, err := Run(context.Background(), []string{"A", "B", "C"}, rec.op, Options{
		SkipExisting: true,
		Exists:       existsFor("A"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "C"}, rec.calls)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 2, sum.Succeeded)
	assert.Equal(t, StatusSkipped, sum.Outcomes[0].Status)
	assert.True(t, sum.Consistent())
}

func TestRunDryRunNeverInvokesOperation(t *testing.T) {
	for _, skip := range []bool{false, true} {
		rec := &recorder{}
		opts := Options{DryRun: true, SkipExisting: skip}
		if skip {
			opts.Exists = existsFor("B")
		}

		sum, err := Run(context.Background(), []string{"A", "B", "C"}, rec.op, opts)
		require.NoError(t, err)

		assert.Empty(t, rec.calls)
		assert.True(t, sum.DryRun)
		assert.Equal(t, 3, sum.WouldProcess)
		assert.Zero(t, sum.Succeeded)
		assert.Zero(t, sum.Failed)
		assert.Zero(t, sum.Skipped)
		assert.True(t, sum.Consistent())
		if skip {
			assert.Equal(t, []string{"A", "C"}, sum.Preview)
			assert.Equal(t, []string{"B"}, sum.WouldSkip)
		} else {
			assert.Equal(t, []string{"A", "B", "C"}, sum.Preview)
			assert.Empty(t, sum.WouldSkip)
		}
	}
}

func TestRunAbortsOnUnclassifiedError(t *testing.T) {
	outage := errors.New("connection reset")
	rec := &recorder{fail: map[string]error{"B": outage}}

	sum, err := Run(context.Background(), []string{"A", "B", "C"}, rec.op, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, outage)
	assert.Equal(t, []string{"A", "B"}, rec.calls)

	require.NotNil(t, sum)
	assert.Equal(t, 1, sum.Succeeded)
	assert.False(t, sum.Complete())
	assert.True(t, sum.Consistent())
}

func TestRunAbortsOnAuthError(t *testing.T) {
	authErr := errors.Join(domain.ErrAuth, domain.ErrNotFound)
	rec := &recorder{fail: map[string]error{"A": authErr}}

	_, err := Run(context.Background(), []string{"A", "B"}, rec.op, Options{})
	require.ErrorIs(t, err, domain.ErrAuth)
	assert.Equal(t, []string{"A"}, rec.calls)
}

func TestRunExistenceCheckErrors(t *testing.T) {
	t.Run("classified marks target failed", func(t *testing.T) {
		rec := &recorder{}
		exists := func(_ context.Context, target string) (bool, error) {
			if target == "A" {
				return false, domain.NewNotFoundError("issue A")
			}
			return false, nil
		}
		sum, err := Run(context.Background(), []string{"A", "B"}, rec.op, Options{
			SkipExisting: true, Exists: exists,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"B"}, rec.calls)
		assert.Equal(t, 1, sum.Failed)
		assert.Equal(t, "A", sum.Failures[0].Target)
	})

	t.Run("unclassified aborts", func(t *testing.T) {
		rec := &recorder{}
		exists := func(context.Context, string) (bool, error) {
			return false, domain.ErrServer
		}
		_, err := Run(context.Background(), []string{"A", "B"}, rec.op, Options{
			SkipExisting: true, Exists: exists,
		})
		require.ErrorIs(t, err, domain.ErrServer)
		assert.Empty(t, rec.calls)
	})
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls []string
	op := func(_ context.Context, target string) error {
		calls = append(calls, target)
		cancel()
		return nil
	}

	sum, err := Run(ctx, []string{"A", "B"}, op, Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, domain.IsBusiness(err))
	assert.Equal(t, []string{"A"}, calls)
	assert.Equal(t, 1, sum.Succeeded)
}

func TestRunReportsProgress(t *testing.T) {
	var seen []int
	rec := &recorder{}
	_, err := Run(context.Background(), []string{"A", "B", "C"}, rec.op, Options{
		Progress: func(done, total int, _ Outcome) {
			assert.Equal(t, 3, total)
			seen = append(seen, done)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestRunValidatesInput(t *testing.T) {
	rec := &recorder{}

	_, err := Run(context.Background(), nil, rec.op, Options{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Run(context.Background(), []string{"A"}, rec.op, Options{SkipExisting: true})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Run(context.Background(), []string{"A"}, nil, Options{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSummaryConsistent(t *testing.T) {
	s := &Summary{Total: 2}
	s.record(Outcome{Target: "A", Status: StatusSucceeded})
	s.record(Outcome{Target: "B", Status: StatusFailed, Reason: "x"})
	assert.True(t, s.Consistent())

	s.Succeeded++
	assert.False(t, s.Consistent())
}
