package selection_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passpick/passpick/internal/entry"
	"github.com/passpick/passpick/internal/selection"
)

type fakeGenerator struct {
	code string
	err  error
}

func (f *fakeGenerator) Generate(_ context.Context) (string, error) {
	return f.code, f.err
}

func TestBuildItems_Order(t *testing.T) {
	t.Parallel()

	e, _ := entry.Parse("secret\nlogin: a@b.com\nurl: http://x")

	items := selection.BuildItems(e, false)

	assert.Equal(t, []string{"password", "login", "url"}, selection.Labels(items))
}

func TestBuildItems_OTPAppendedLast(t *testing.T) {
	t.Parallel()

	e, _ := entry.Parse("pw\nlogin: me")

	items := selection.BuildItems(e, true)

	labels := selection.Labels(items)
	require.Equal(t, []string{"password", "login", "otp"}, labels)
	assert.Equal(t, selection.SourceOTP, items[len(items)-1].Source)
}

func TestBuildItems_NoOTPWhenUnavailable(t *testing.T) {
	t.Parallel()

	e, _ := entry.Parse("pw\nlogin: me\nnotes:\nM\na\nb\nM")

	items := selection.BuildItems(e, false)

	for _, it := range items {
		assert.NotEqual(t, selection.SourceOTP, it.Source)
		assert.NotEqual(t, "otp", it.Label)
	}
}

func TestBuildItems_DuplicateKeysBothSelectable(t *testing.T) {
	t.Parallel()

	e, _ := entry.Parse("pw\nurl: http://a\nurl: http://b")

	items := selection.BuildItems(e, false)

	require.Equal(t, []string{"password", "url", "url"}, selection.Labels(items))
	assert.Equal(t, 0, items[1].FieldIndex)
	assert.Equal(t, 1, items[2].FieldIndex)
}

func TestFindItem(t *testing.T) {
	t.Parallel()

	e, _ := entry.Parse("pw\nurl: http://a\nurl: http://b")
	items := selection.BuildItems(e, false)

	it, ok := selection.FindItem(items, "url")
	require.True(t, ok)
	// First occurrence wins for duplicate labels.
	assert.Equal(t, 0, it.FieldIndex)

	_, ok = selection.FindItem(items, "missing")
	assert.False(t, ok)
}

func TestResolve_Password(t *testing.T) {
	t.Parallel()

	e, _ := entry.Parse("hunter2\nlogin: me")
	items := selection.BuildItems(e, false)

	p, err := selection.Resolve(context.Background(), e, items[0], nil)

	require.NoError(t, err)
	assert.Equal(t, selection.Payload{Text: "hunter2", Kind: selection.KindPassword}, p)
}

func TestResolve_EmptyPasswordSucceeds(t *testing.T) {
	t.Parallel()

	e, _ := entry.Parse("\nfield: v")
	items := selection.BuildItems(e, false)

	p, err := selection.Resolve(context.Background(), e, items[0], nil)

	require.NoError(t, err)
	assert.Equal(t, "", p.Text)
}

func TestResolve_FieldKinds(t *testing.T) {
	t.Parallel()

	e, _ := entry.Parse("pw\nlogin: me\nnotes:\nM\nline1\nline2\nM")
	items := selection.BuildItems(e, false)

	flat, err := selection.Resolve(context.Background(), e, items[1], nil)
	require.NoError(t, err)
	assert.Equal(t, selection.KindPlainField, flat.Kind)
	assert.Equal(t, "me", flat.Text)

	multi, err := selection.Resolve(context.Background(), e, items[2], nil)
	require.NoError(t, err)
	assert.Equal(t, selection.KindMultilineField, multi.Kind)
	assert.Equal(t, "line1\nline2", multi.Text)
}

func TestResolve_StaleIndex(t *testing.T) {
	t.Parallel()

	e, _ := entry.Parse("pw\nlogin: me")
	stale := selection.Item{Label: "login", Source: selection.SourceField, FieldIndex: 7}

	_, err := selection.Resolve(context.Background(), e, stale, nil)

	assert.ErrorIs(t, err, selection.ErrStaleItem)
}

func TestResolve_OTP(t *testing.T) {
	t.Parallel()

	e, _ := entry.Parse("pw")
	items := selection.BuildItems(e, true)
	otpItem := items[len(items)-1]

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		p, err := selection.Resolve(context.Background(), e, otpItem, &fakeGenerator{code: "123456"})

		require.NoError(t, err)
		assert.Equal(t, selection.Payload{Text: "123456", Kind: selection.KindOTP}, p)
	})

	t.Run("generator failure propagates", func(t *testing.T) {
		t.Parallel()

		_, err := selection.Resolve(context.Background(), e, otpItem, &fakeGenerator{err: errors.New("no secret")})

		assert.ErrorIs(t, err, selection.ErrOTPGeneration)
		assert.Contains(t, err.Error(), "no secret")
	})

	t.Run("nil generator fails", func(t *testing.T) {
		t.Parallel()

		_, err := selection.Resolve(context.Background(), e, otpItem, nil)

		assert.ErrorIs(t, err, selection.ErrOTPGeneration)
	})
}
