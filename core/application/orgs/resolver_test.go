package orgs_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/diavgeia-watch/diavgeia/core/application/orgs"
	"github.com/diavgeia-watch/diavgeia/core/domain"
)

type MockFinder struct {
	mock.Mock
}

func (m *MockFinder) FindOrganization(ctx context.Context, name string) (*domain.OrgCandidate, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrgCandidate), args.Error(1)
}

func TestResolver_Resolve(t *testing.T) {
	r := orgs.New(nil, 0)

	tests := []struct {
		name    string
		query   string
		wantUID string
	}{
		{name: "uid", query: "6105", wantUID: "6105"},
		{name: "english alias", query: "athens", wantUID: "6105"},
		{name: "greek alias mixed case", query: "Δήμος Αθηναίων", wantUID: "6105"},
		{name: "canonical label", query: "ΔΗΜΟΣ ΑΘΗΝΑΙΩΝ", wantUID: "6105"},
		{name: "padded", query: "  θεσσαλονίκη ", wantUID: "6127"},
		{name: "ministry", query: "Ministry of Health", wantUID: "100003831"},
		{name: "substring inside question", query: "spending of ministry of education in 2024", wantUID: "100003788"},
		{name: "longest alias wins", query: "αθήνα και πειραιάς", wantUID: "6144"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org, ok := r.Resolve(context.Background(), tt.query)
			require.True(t, ok)
			assert.Equal(t, tt.wantUID, org.UID)
		})
	}
}

func TestResolver_Resolve_Unknown(t *testing.T) {
	r := orgs.New(nil, 0)

	_, ok := r.Resolve(context.Background(), "xyz")
	assert.False(t, ok)

	_, ok = r.Resolve(context.Background(), "   ")
	assert.False(t, ok)
}

func TestResolver_FuzzyFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("accepted above floor", func(t *testing.T) {
		finder := new(MockFinder)
		finder.On("FindOrganization", ctx, "νοσοκομειο ευαγγελισμος").Return(&domain.OrgCandidate{
			Organization: domain.Organization{UID: "99221922", Label: "ΝΟΣΟΚΟΜΕΙΟ ΕΥΑΓΓΕΛΙΣΜΟΣ"},
			Similarity:   0.45,
		}, nil)

		org, ok := orgs.New(finder, 0).Resolve(ctx, "Νοσοκομειο Ευαγγελισμος")
		require.True(t, ok)
		assert.Equal(t, "99221922", org.UID)
		finder.AssertExpectations(t)
	})

	t.Run("rejected at floor", func(t *testing.T) {
		finder := new(MockFinder)
		finder.On("FindOrganization", ctx, mock.Anything).Return(&domain.OrgCandidate{
			Organization: domain.Organization{UID: "1", Label: "X"},
			Similarity:   0.2,
		}, nil)

		_, ok := orgs.New(finder, 0).Resolve(ctx, "unknown body")
		assert.False(t, ok)
	})

	t.Run("error treated as unresolved", func(t *testing.T) {
		finder := new(MockFinder)
		finder.On("FindOrganization", ctx, mock.Anything).Return(nil, errors.New("connection refused"))

		_, ok := orgs.New(finder, 0).Resolve(ctx, "unknown body")
		assert.False(t, ok)
		finder.AssertExpectations(t)
	})

	t.Run("not consulted for curated hits", func(t *testing.T) {
		finder := new(MockFinder)

		_, ok := orgs.New(finder, 0).Resolve(ctx, "piraeus")
		assert.True(t, ok)
		finder.AssertNotCalled(t, "FindOrganization", mock.Anything, mock.Anything)
	})
}

func TestResolver_Search(t *testing.T) {
	r := orgs.New(nil, 0)

	got := r.Search("δήμος", 5)
	uids := make([]string, 0, len(got))
	for _, o := range got {
		uids = append(uids, o.UID)
	}
	assert.Equal(t, []string{"6184", "6158", "6156", "6154", "6174"}, uids)

	assert.Empty(t, r.Search("", 5))
	assert.Len(t, r.Search("ministry", 0), 6)
}

func TestResolver_PromptTable(t *testing.T) {
	r := orgs.New(nil, 0)

	lines := strings.Split(r.PromptTable(30), "\n")
	assert.Equal(t, "UID | Organization", lines[0])
	assert.Equal(t, "6105 | ΔΗΜΟΣ ΑΘΗΝΑΙΩΝ (aka: δήμος αθηναίων, δήμος αθήνας)", lines[2])
	assert.Len(t, lines, 2+29)

	assert.Len(t, strings.Split(r.PromptTable(3), "\n"), 5)
}
