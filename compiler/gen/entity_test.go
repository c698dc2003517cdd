package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumdb/cqlmapper/compiler/load"
)

func votesDecl() *load.Entity {
	return &load.Entity{
		Name: "Votes",
		Properties: []*load.Property{
			{Name: "articleID", Type: "int", Key: load.KeyPartition},
			{Name: "upVotes", Type: "counter"},
			{Name: "downVotes", Type: "counter"},
		},
	}
}

func TestNewEntity(t *testing.T) {
	ed, err := NewEntity(&Config{}, votesDecl())
	require.NoError(t, err)

	assert.Equal(t, "Votes", ed.Name)
	assert.Equal(t, "votes", ed.Table, "table derives from the naming convention")
	assert.Empty(t, ed.Keyspace)
	assert.True(t, ed.Mutable, "no strategy and no record shape falls back to the global default")
	assert.Equal(t, AccessorGetSet, ed.Accessor)

	require.Len(t, ed.PartitionKey, 1)
	assert.Equal(t, "article_id", ed.PartitionKey[0].Column)
	assert.Equal(t, 0, ed.PartitionKey[0].Ordinal)
	assert.Empty(t, ed.ClusteringKey)
	require.Len(t, ed.RegularColumns, 2)
	assert.Equal(t, "up_votes", ed.RegularColumns[0].Column)
	assert.Equal(t, "down_votes", ed.RegularColumns[1].Column)
	assert.Equal(t, -1, ed.RegularColumns[0].Ordinal)
}

func TestNewEntity_ExplicitOverrides(t *testing.T) {
	decl := votesDecl()
	decl.Keyspace = "analytics"
	decl.Table = "vote_counts"
	decl.Properties[1].Column = "ups"

	ed, err := NewEntity(&Config{}, decl)
	require.NoError(t, err)
	assert.Equal(t, "analytics", ed.Keyspace)
	assert.Equal(t, "vote_counts", ed.Table)
	assert.Equal(t, "ups", ed.RegularColumns[0].Column)
}

func TestNewEntity_TransientSkipped(t *testing.T) {
	decl := votesDecl()
	decl.Properties = append(decl.Properties, &load.Property{Name: "cachedScore", Type: "double", Transient: true})

	ed, err := NewEntity(&Config{}, decl)
	require.NoError(t, err)
	assert.Len(t, ed.Properties, 3)
	_, ok := ed.Property("cachedScore")
	assert.False(t, ok)
}

func TestNewEntity_DuplicateColumn(t *testing.T) {
	decl := votesDecl()
	decl.Properties[2].Column = "up_votes"

	_, err := NewEntity(&Config{}, decl)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDeclaration)
	assert.Contains(t, err.Error(), `map to the same column "up_votes"`)
}

func TestNewEntity_NoPartitionKey(t *testing.T) {
	decl := votesDecl()
	decl.Properties[0].Key = load.KeyNone

	_, err := NewEntity(&Config{}, decl)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDeclaration)
	assert.Contains(t, err.Error(), "no partition key")
}

func TestNewEntity_KeyOrdinals(t *testing.T) {
	pos := func(n int) *int { return &n }
	decl := &load.Entity{
		Name: "DailyTotals",
		Properties: []*load.Property{
			{Name: "day", Type: "timestamp", Key: load.KeyClustering, Position: pos(1)},
			{Name: "tenantID", Type: "uuid", Key: load.KeyPartition},
			{Name: "hour", Type: "int", Key: load.KeyClustering, Position: pos(0)},
			{Name: "hits", Type: "counter"},
		},
	}
	ed, err := NewEntity(&Config{}, decl)
	require.NoError(t, err)

	// Explicit positions reorder the segment; declaration order is
	// irrelevant once every member declares one.
	require.Len(t, ed.ClusteringKey, 2)
	assert.Equal(t, "hour", ed.ClusteringKey[0].Name)
	assert.Equal(t, "day", ed.ClusteringKey[1].Name)
	assert.Equal(t, 0, ed.ClusteringKey[0].Ordinal)
	assert.Equal(t, 1, ed.ClusteringKey[1].Ordinal)

	pk := ed.PrimaryKey()
	require.Len(t, pk, 3)
	assert.Equal(t, "tenant_id", pk[0].Column, "partition before clustering")
}

func TestNewEntity_KeyOrdinalErrors(t *testing.T) {
	pos := func(n int) *int { return &n }
	tests := []struct {
		name    string
		props   []*load.Property
		wantErr string
	}{
		{
			name: "mixed explicit and implicit",
			props: []*load.Property{
				{Name: "a", Type: "int", Key: load.KeyPartition, Position: pos(0)},
				{Name: "b", Type: "int", Key: load.KeyPartition},
				{Name: "hits", Type: "counter"},
			},
			wantErr: "mixes explicit and implicit positions",
		},
		{
			name: "position out of range",
			props: []*load.Property{
				{Name: "a", Type: "int", Key: load.KeyPartition, Position: pos(0)},
				{Name: "b", Type: "int", Key: load.KeyPartition, Position: pos(2)},
				{Name: "hits", Type: "counter"},
			},
			wantErr: "outside 0..1",
		},
		{
			name: "duplicate position",
			props: []*load.Property{
				{Name: "a", Type: "int", Key: load.KeyPartition, Position: pos(0)},
				{Name: "b", Type: "int", Key: load.KeyPartition, Position: pos(0)},
				{Name: "hits", Type: "counter"},
			},
			wantErr: "position 0 declared by both",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEntity(&Config{}, &load.Entity{Name: "E", Properties: tt.props})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDeclaration)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewEntity_ImmutableRequiresConstructor(t *testing.T) {
	mutable := false
	decl := votesDecl()
	decl.Strategy = []*load.Strategy{{Mutable: &mutable}}

	_, err := NewEntity(&Config{}, decl)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDeclaration)
	assert.Contains(t, err.Error(), "constructor accepting all 3")

	decl.Constructors = [][]string{{"articleID", "upVotes", "downVotes"}}
	ed, err := NewEntity(&Config{}, decl)
	require.NoError(t, err)
	assert.False(t, ed.Mutable)
}

func TestResolveStrategy(t *testing.T) {
	mutable := true
	immutable := false
	tests := []struct {
		name         string
		decl         func() *load.Entity
		wantMutable  bool
		wantAccessor AccessorStyle
	}{
		{
			name:         "global default",
			decl:         votesDecl,
			wantMutable:  true,
			wantAccessor: AccessorGetSet,
		},
		{
			name: "record shape detected",
			decl: func() *load.Entity {
				d := votesDecl()
				d.Constructors = [][]string{{"articleID", "upVotes", "downVotes"}}
				return d
			},
			wantMutable:  false,
			wantAccessor: AccessorShort,
		},
		{
			name: "setters defeat the record shape",
			decl: func() *load.Entity {
				d := votesDecl()
				d.Constructors = [][]string{{"articleID", "upVotes", "downVotes"}}
				d.Setters = []string{"upVotes"}
				return d
			},
			wantMutable:  true,
			wantAccessor: AccessorGetSet,
		},
		{
			name: "explicit fragments win over detectors",
			decl: func() *load.Entity {
				d := votesDecl()
				d.Constructors = [][]string{{"articleID", "upVotes", "downVotes"}}
				d.Strategy = []*load.Strategy{{Mutable: &mutable, Accessor: "getset"}}
				return d
			},
			wantMutable:  true,
			wantAccessor: AccessorGetSet,
		},
		{
			// A partial explicit fragment pins the declaration: the
			// unspecified field takes the global default, not the
			// detector's, even though the shape would match.
			name: "partial fragment falls back to the global default",
			decl: func() *load.Entity {
				d := votesDecl()
				d.Constructors = [][]string{{"articleID", "upVotes", "downVotes"}}
				d.Strategy = []*load.Strategy{{Accessor: "short"}}
				return d
			},
			wantMutable:  true,
			wantAccessor: AccessorShort,
		},
		{
			name: "disjoint fragments merge",
			decl: func() *load.Entity {
				d := votesDecl()
				d.Constructors = [][]string{{"articleID", "upVotes", "downVotes"}}
				d.Strategy = []*load.Strategy{{Mutable: &immutable}, {Accessor: "short"}}
				return d
			},
			wantMutable:  false,
			wantAccessor: AccessorShort,
		},
		{
			name: "agreeing fragments are not a conflict",
			decl: func() *load.Entity {
				d := votesDecl()
				d.Strategy = []*load.Strategy{{Mutable: &mutable}, {Mutable: &mutable}}
				return d
			},
			wantMutable:  true,
			wantAccessor: AccessorGetSet,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMutable, gotAccessor, err := resolveStrategy(&Config{}, tt.decl())
			require.NoError(t, err)
			assert.Equal(t, tt.wantMutable, gotMutable)
			assert.Equal(t, tt.wantAccessor, gotAccessor)
		})
	}
}

func TestResolveStrategy_Conflicts(t *testing.T) {
	mutable := true
	immutable := false

	decl := votesDecl()
	decl.Strategy = []*load.Strategy{{Mutable: &mutable}, {Mutable: &immutable}}
	_, _, err := resolveStrategy(&Config{}, decl)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousStrategy)
	assert.True(t, IsAmbiguityError(err))

	decl = votesDecl()
	decl.Strategy = []*load.Strategy{{Accessor: "getset"}, {Accessor: "short"}}
	_, _, err = resolveStrategy(&Config{}, decl)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousStrategy)

	decl = votesDecl()
	decl.Strategy = []*load.Strategy{{Accessor: "fluent"}}
	_, _, err = resolveStrategy(&Config{}, decl)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDeclaration)
	assert.Contains(t, err.Error(), `unknown accessor style "fluent"`)
}

func TestEntityDefinition_Names(t *testing.T) {
	ed, err := NewEntity(&Config{}, votesDecl())
	require.NoError(t, err)

	assert.Equal(t, "Votes", ed.StructName())
	assert.Equal(t, "votesHelper", ed.HelperType())
	assert.Equal(t, "votesHelper", ed.HelperField())
	assert.Equal(t, "newVotesHelper", ed.HelperConstructor())
	assert.Equal(t, "NewVotes", ed.ConstructorName())
	assert.Equal(t, "v", ed.Receiver())

	p, ok := ed.Property("upVotes")
	require.True(t, ok)
	assert.Equal(t, "UpVotes", p.FieldName(true))
	assert.Equal(t, "upVotes", p.FieldName(false))
	assert.Equal(t, "UpVotes", p.Getter(AccessorShort))
	assert.Equal(t, "GetUpVotes", p.Getter(AccessorGetSet))
	assert.Equal(t, "up_votes", p.Marker())
}
