package cql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumdb/cqlmapper/compiler/gen"
	"github.com/vellumdb/cqlmapper/compiler/load"
)

func votesSchema() *load.Schema {
	return &load.Schema{
		Entities: []*load.Entity{{
			Name: "Votes",
			Properties: []*load.Property{
				{Name: "articleID", Type: "int", Key: load.KeyPartition},
				{Name: "upVotes", Type: "counter"},
				{Name: "downVotes", Type: "counter"},
			},
		}},
	}
}

func analyzeDAO(t *testing.T, dao *load.DAO, schema *load.Schema) *gen.DAOSpec {
	t.Helper()
	cfg := &gen.Config{Package: "mapper"}
	diags := &gen.Diagnostics{}
	analyzer := gen.NewAnalyzer(cfg, gen.NewRegistry(cfg, schema), diags)
	spec := &gen.DAOSpec{Name: dao.Name, Registry: analyzer.Registry()}
	for _, m := range dao.Methods {
		ms := analyzer.Method(dao, m)
		require.NotNil(t, ms, "diagnostics: %v", diags.Records())
		spec.Methods = append(spec.Methods, ms)
	}
	require.False(t, diags.HasErrors())
	return spec
}

func votesDAO(t *testing.T, methods ...*load.Method) *gen.DAOSpec {
	t.Helper()
	if methods == nil {
		methods = []*load.Method{{
			Name:   "increment",
			Kind:   gen.KindIncrement,
			Params: []*load.Param{{Name: "votes", Type: "Votes"}},
		}}
	}
	return analyzeDAO(t, &load.DAO{Name: "VotesDAO", Methods: methods}, votesSchema())
}

func TestEmitEntity_Mutable(t *testing.T) {
	cfg := &gen.Config{Package: "mapper"}
	registry := gen.NewRegistry(cfg, votesSchema())
	ed, err := registry.Entity("Votes")
	require.NoError(t, err)

	src := New("mapper").EmitEntity(ed).GoString()

	assert.Contains(t, src, "Code generated by cqlmapper. DO NOT EDIT.")
	assert.Contains(t, src, "package mapper")
	assert.Contains(t, src, "type Votes struct")
	assert.Contains(t, src, "ArticleID int32", "key columns keep their value type")
	assert.Regexp(t, `UpVotes\s+\*int64`, src, "regular columns are pointers")
	assert.Regexp(t, `DownVotes\s+\*int64`, src)
	assert.NotContains(t, src, "func NewVotes", "mutable entities have no constructor")

	assert.Contains(t, src, "type votesHelper struct")
	assert.Contains(t, src, "func newVotesHelper() *votesHelper")
	assert.Contains(t, src, `keyspace: ""`)
	assert.Contains(t, src, `table: "votes"`)

	// Keys bind unconditionally, regular columns honor the strategy.
	assert.Contains(t, src, `b.Set("article_id", e.ArticleID)`)
	assert.Contains(t, src, `if v := e.UpVotes; v != nil`)
	assert.Contains(t, src, `b.Set("up_votes", *v)`)
	assert.Contains(t, src, "} else if strategy == cqlmapper.SetToNull {")
	assert.Contains(t, src, `b.SetNull("up_votes")`)
}

func TestEmitEntity_Immutable(t *testing.T) {
	schema := votesSchema()
	schema.Entities[0].Constructors = [][]string{{"articleID", "upVotes", "downVotes"}}

	cfg := &gen.Config{Package: "mapper"}
	registry := gen.NewRegistry(cfg, schema)
	ed, err := registry.Entity("Votes")
	require.NoError(t, err)
	require.False(t, ed.Mutable)

	src := New("mapper").EmitEntity(ed).GoString()

	assert.Contains(t, src, "articleID int32", "immutable fields are unexported")
	assert.Regexp(t, `upVotes\s+\*int64`, src)
	assert.Contains(t, src, "func NewVotes(articleID int32, upVotes *int64, downVotes *int64) *Votes")
	assert.Contains(t, src, "func (v *Votes) ArticleID() int32", "short accessor style")
	assert.Contains(t, src, "return v.articleID")
	assert.Contains(t, src, `b.Set("article_id", e.ArticleID())`, "helper reads through accessors")
}

func TestEmitDAO_Constructor(t *testing.T) {
	src := New("mapper").EmitDAO(votesDAO(t)).GoString()

	assert.Contains(t, src, "type votesDAOImpl struct")
	assert.Regexp(t, `session\s+cqlmapper\.Session`, src)
	assert.Regexp(t, `votesHelper\s+\*votesHelper`, src)
	assert.Contains(t, src, "votesIncrementStmt cqlmapper.PreparedStatement")

	assert.Contains(t, src, "func NewVotesDAO(ctx context.Context, session cqlmapper.Session) (*votesDAOImpl, error)")
	assert.Contains(t, src, `if session.Keyspace() == ""`,
		"unqualified statements need an ambient keyspace")
	assert.Contains(t, src, "d.votesHelper = newVotesHelper()")
	assert.Contains(t, src,
		`stmt, err := session.Prepare(ctx, "UPDATE votes SET up_votes = up_votes + :up_votes, down_votes = down_votes + :down_votes WHERE article_id = :article_id")`)
	assert.Contains(t, src, `return nil, fmt.Errorf("prepare votesIncrementStmt: %w", err)`)
	assert.Contains(t, src, "d.votesIncrementStmt = stmt")
}

func TestEmitDAO_TableOverridesRenderSeparateFields(t *testing.T) {
	src := New("mapper").EmitDAO(votesDAO(t,
		&load.Method{
			Name:   "increment",
			Kind:   gen.KindIncrement,
			Params: []*load.Param{{Name: "votes", Type: "Votes"}},
		},
		&load.Method{
			Name:   "incrementArchive",
			Kind:   gen.KindIncrement,
			Table:  "votes_archive",
			Params: []*load.Param{{Name: "votes", Type: "Votes"}},
		},
	)).GoString()

	assert.Regexp(t, `votesIncrementStmt\s+cqlmapper\.PreparedStatement`, src)
	assert.Regexp(t, `votesIncrement2Stmt\s+cqlmapper\.PreparedStatement`, src)
	assert.Contains(t, src, "d.votesIncrementStmt = stmt")
	assert.Contains(t, src, "d.votesIncrement2Stmt = stmt")
	assert.Contains(t, src,
		`session.Prepare(ctx, "UPDATE votes_archive SET up_votes = up_votes + :up_votes, down_votes = down_votes + :down_votes WHERE article_id = :article_id")`)
	assert.Contains(t, src, "b := d.votesIncrement2Stmt.Builder()",
		"the overriding method binds through its own slot")
}

func TestEmitDAO_QualifiedKeyspaceSkipsGuard(t *testing.T) {
	spec := analyzeDAO(t, &load.DAO{
		Name:     "VotesDAO",
		Keyspace: "analytics",
		Methods: []*load.Method{{
			Name:   "increment",
			Kind:   gen.KindIncrement,
			Params: []*load.Param{{Name: "votes", Type: "Votes"}},
		}},
	}, votesSchema())
	src := New("mapper").EmitDAO(spec).GoString()

	assert.NotContains(t, src, `session.Keyspace() == ""`)
	assert.Contains(t, src, "UPDATE analytics.votes SET")
}

func TestEmitDAO_VoidMethod(t *testing.T) {
	src := New("mapper").EmitDAO(votesDAO(t, &load.Method{
		Name:       "increment",
		Kind:       gen.KindIncrement,
		Params:     []*load.Param{{Name: "votes", Type: "Votes"}},
		Customizer: true,
	})).GoString()

	assert.Contains(t, src,
		"func (d *votesDAOImpl) Increment(ctx context.Context, votes *Votes, fn cqlmapper.Customizer) error")
	assert.Contains(t, src, "b := d.votesIncrementStmt.Builder()")
	assert.Contains(t, src, "b = b.Apply(fn)")
	assert.Contains(t, src, "strategy := cqlmapper.SetToNull")
	assert.Contains(t, src, "if d.session.SupportsUnset() {")
	assert.Contains(t, src, "strategy = cqlmapper.DoNotSet")
	assert.Contains(t, src, "d.votesHelper.Set(votes, b, strategy)")
	assert.Contains(t, src, "return d.session.Execute(ctx, b.Build())")
}

func TestEmitDAO_FutureMethod(t *testing.T) {
	src := New("mapper").EmitDAO(votesDAO(t, &load.Method{
		Name:    "incrementAsync",
		Kind:    gen.KindIncrement,
		Returns: "future",
		Params:  []*load.Param{{Name: "votes", Type: "Votes"}},
	})).GoString()

	assert.Contains(t, src,
		"func (d *votesDAOImpl) IncrementAsync(ctx context.Context, votes *Votes) *cqlmapper.Future")
	assert.Contains(t, src, "return d.session.ExecuteAsync(ctx, b.Build())")
	assert.NotContains(t, src, "Apply(fn)", "no customizer declared")
}

func TestEmitDAO_StreamMethod(t *testing.T) {
	src := New("mapper").EmitDAO(votesDAO(t, &load.Method{
		Name:    "incrementStream",
		Kind:    gen.KindIncrement,
		Returns: "stream",
		Params:  []*load.Param{{Name: "votes", Type: "Votes"}},
	})).GoString()

	// Stream methods take no context; the subscriber supplies one.
	assert.Contains(t, src,
		"func (d *votesDAOImpl) IncrementStream(votes *Votes) *cqlmapper.Stream")
	assert.Contains(t, src, "return cqlmapper.Defer(func(ctx context.Context) error {")
	assert.Contains(t, src, "return d.session.Execute(ctx, b.Build())")
}

func TestEmitDAO_Attributes(t *testing.T) {
	src := New("mapper").EmitDAO(votesDAO(t, &load.Method{
		Name:       "increment",
		Kind:       gen.KindIncrement,
		Params:     []*load.Param{{Name: "votes", Type: "Votes"}},
		Attributes: &load.Attributes{PageSize: 100, TimeoutMS: 250, Profile: "oltp"},
	})).GoString()

	assert.Contains(t, src,
		`b.WithAttributes(cqlmapper.Attributes{PageSize: 100, Timeout: 250 * time.Millisecond, Profile: "oltp"})`)
}

// Identical specs render identical files, repeatedly.
func TestEmit_Deterministic(t *testing.T) {
	first := New("mapper").EmitDAO(votesDAO(t)).GoString()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, New("mapper").EmitDAO(votesDAO(t)).GoString())
	}
}
