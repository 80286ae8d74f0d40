package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passpick/passpick/internal/logging"
	"github.com/passpick/passpick/internal/store"
	"github.com/passpick/passpick/tests/testutil"
)

func testLogger() *logging.Logger {
	return logging.New(false, true)
}

func TestParseListing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		listing string
		want    []string
	}{
		{
			name: "flat store",
			listing: "Password Store\n" +
				"├── github\n" +
				"└── email\n",
			want: []string{"github", "email"},
		},
		{
			name: "nested directories",
			listing: "Password Store\n" +
				"├── \x1b[01;34mwork\x1b[0m\n" +
				"│   ├── mail\n" +
				"│   └── vpn\n" +
				"└── personal\n",
			want: []string{"work/mail", "work/vpn", "personal"},
		},
		{
			name: "deeply nested",
			listing: "Password Store\n" +
				"└── \x1b[01;34mwork\x1b[0m\n" +
				"    └── \x1b[01;34mcloud\x1b[0m\n" +
				"        └── aws\n",
			want: []string{"work/cloud/aws"},
		},
		{
			name: "sibling after nested directory",
			listing: "Password Store\n" +
				"├── \x1b[01;34mwork\x1b[0m\n" +
				"│   └── mail\n" +
				"└── bank\n",
			want: []string{"work/mail", "bank"},
		},
		{
			name: "non-breaking spaces in indentation",
			listing: "Password Store\n" +
				"├── \x1b[01;34mwork\x1b[0m\n" +
				"│   └── mail\n",
			want: []string{"work/mail"},
		},
		{
			name:    "empty store",
			listing: "Password Store\n",
			want:    nil,
		},
		{
			name:    "empty output",
			listing: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, store.ParseListing(tt.listing))
		})
	}
}

func TestStore_List(t *testing.T) {
	t.Parallel()

	mockExec := testutil.NewMockCommandExecutor()
	mockExec.AddResponse("pass list", testutil.PassMockResponses{}.List())

	s := store.New(testLogger(), store.WithExecutor(mockExec))

	entries, err := s.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"work/mail", "work/vpn", "personal"}, entries)
}

func TestStore_ListFailure(t *testing.T) {
	t.Parallel()

	mockExec := testutil.NewMockCommandExecutor()
	mockExec.AddErrorResponse("pass list", "Error: password store is empty. Try \"pass init\".", 1)

	s := store.New(testLogger(), store.WithExecutor(mockExec))

	_, err := s.List(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass init")
}

func TestStore_Show(t *testing.T) {
	t.Parallel()

	mockExec := testutil.NewMockCommandExecutor()
	mockExec.AddTextResponse("pass show work/mail", "hunter2\nlogin: me@example.com\n")

	s := store.New(testLogger(), store.WithExecutor(mockExec))

	body, err := s.Show(context.Background(), "work/mail")

	require.NoError(t, err)
	// The body comes back verbatim; the first line must survive byte for byte.
	assert.Equal(t, "hunter2\nlogin: me@example.com\n", body)
}

func TestStore_ShowNotFound(t *testing.T) {
	t.Parallel()

	mockExec := testutil.NewMockCommandExecutor()
	mockExec.AddErrorResponse("pass show missing", "Error: missing is not in the password store.", 1)

	s := store.New(testLogger(), store.WithExecutor(mockExec))

	_, err := s.Show(context.Background(), "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Contains(t, err.Error(), "pass ls")
}

func TestStore_CustomStoreDir(t *testing.T) {
	t.Parallel()

	mockExec := testutil.NewMockCommandExecutor()
	mockExec.AddTextResponse("sh -c", "pw\n")

	s := store.New(testLogger(),
		store.WithExecutor(mockExec),
		store.WithStoreDir("/tmp/teststore"))

	_, err := s.Show(context.Background(), "x")
	require.NoError(t, err)

	calls := mockExec.GetCalls("sh")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Args[1], "PASSWORD_STORE_DIR=/tmp/teststore")
	assert.Contains(t, calls[0].Args[1], `pass "show" "x"`)
}
