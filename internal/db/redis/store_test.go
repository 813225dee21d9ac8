package redis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/geodocs/internal/db"
	"github.com/kailas-cloud/geodocs/internal/domain/search/query"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewStore_NoAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestContainsIgnoreCase(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"Index Already Exists", "index already exists", true},
		{"UNKNOWN INDEX NAME", "unknown index name", true},
		{"hello world", "world", true},
		{"short", "longer than input", false},
		{"exact", "exact", true},
		{"", "", true},
		{"notempty", "", true},
	}
	for _, tc := range tests {
		got := containsIgnoreCase(tc.s, tc.sub)
		if got != tc.want {
			t.Errorf("containsIgnoreCase(%q, %q) = %v, want %v", tc.s, tc.sub, got, tc.want)
		}
	}
}

// --- json.go tests ---

func TestJSONSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.SET", "docs:1", "$", `{"title":"x"}`)).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.JSONSet(context.Background(), "docs:1", "$", []byte(`{"title":"x"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJSONSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.SET"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.JSONSet(context.Background(), "docs:1", "$", []byte(`{}`))
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestJSONGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", "docs:1")).
		Return(mock.Result(mock.RedisString(`{"title":"x"}`)))

	s := NewStoreForTest(c)
	data, err := s.JSONGet(context.Background(), "docs:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"title":"x"}` {
		t.Errorf("unexpected data: %s", data)
	}
}

func TestJSONGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", "docs:missing")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.JSONGet(context.Background(), "docs:missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("EXISTS", "docs:1")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	ok, err := s.Exists(context.Background(), "docs:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected true")
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var captured []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			captured = cmd
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	idx := db.NewIndex("docs-idx").
		OnJSON().
		Prefix("docs:").
		TextWithSuffixTrie("$.title", "title").
		VectorFlat("$.geo", "geo", 3, db.DistanceL2, 0).
		MustBuild()
	if err := s.CreateIndex(context.Background(), idx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	joined := strings.Join(captured, " ")
	for _, want := range []string{
		"ON JSON",
		"PREFIX 1 docs:",
		"$.title AS title TEXT WITHSUFFIXTRIE",
		"$.geo AS geo VECTOR FLAT 6 TYPE FLOAT32 DIM 3 DISTANCE_METRIC L2",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("FT.CREATE args = %q, missing %q", joined, want)
		}
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	idx := &db.IndexDefinition{
		Name:   "docs-idx",
		Fields: []db.IndexField{{Name: "$.title", Alias: "title", Type: db.IndexFieldText}},
	}
	err := s.CreateIndex(context.Background(), idx)
	if !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "docs-idx")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	err := s.DropIndex(context.Background(), "docs-idx")
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "docs-idx")).
		Return(mock.Result(mock.RedisError("Unknown index name")))

	s := NewStoreForTest(c)
	exists, err := s.IndexExists(context.Background(), "docs-idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected false")
	}
}

// --- query.go tests ---

func TestRenderQuery_Term(t *testing.T) {
	q, err := query.BuildText("hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := renderQuery(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "@title|content|author:(hello)" {
		t.Errorf("renderQuery = %q", got)
	}
}

func TestRenderQuery_Phrase(t *testing.T) {
	q, err := query.BuildText("  hello world  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := renderQuery(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `@title|content|author:("hello world")` {
		t.Errorf("renderQuery = %q", got)
	}
}

func TestRenderQuery_Substring(t *testing.T) {
	got, err := renderQuery(query.BuildSubstring("needle"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "@title|content|author:(*needle*)" {
		t.Errorf("renderQuery = %q", got)
	}
}

func TestRenderQuery_SubstringMultiToken(t *testing.T) {
	got, err := renderQuery(query.BuildSubstring("two words"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "@title|content|author:(*two* *words*)" {
		t.Errorf("renderQuery = %q", got)
	}
}

func TestRenderQuery_SubstringPunctuatedTerm(t *testing.T) {
	// Wildcards cannot cross index token boundaries, so punctuation splits
	// the term into per-token wildcards the index can actually answer.
	got, err := renderQuery(query.BuildSubstring("a.b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "@title|content|author:(*a* *b*)" {
		t.Errorf("renderQuery = %q", got)
	}
}

func TestRenderQuery_SubstringNoSearchableCharacters(t *testing.T) {
	if _, err := renderQuery(query.BuildSubstring("++")); err == nil {
		t.Error("expected error for a term without indexable characters")
	}
}

func TestRenderQuery_EscapesSpecials(t *testing.T) {
	q, err := query.BuildText("c++")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := renderQuery(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, `c\+\+`) {
		t.Errorf("renderQuery = %q, specials not escaped", got)
	}
}

// --- search.go tests ---

func TestSearchText_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var captured []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			captured = cmd
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2), // total
			mock.RedisString("docs:1"),
			mock.RedisString("1.5"),
			mock.RedisArray(
				mock.RedisString("$"),
				mock.RedisString(`{"title":"first"}`),
			),
			mock.RedisString("docs:2"),
			mock.RedisString("0.7"),
			mock.RedisArray(
				mock.RedisString("$"),
				mock.RedisString(`{"title":"second"}`),
			),
		)))

	q, err := query.BuildText("hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := NewStoreForTest(c)
	result, err := s.SearchText(context.Background(), &db.TextQuery{
		IndexName:    "docs-idx",
		Query:        q,
		Offset:       40,
		Limit:        20,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Total != 2 {
		t.Fatalf("expected total 2, got %d", result.Total)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	if result.Entries[0].Key != "docs:1" || result.Entries[0].Score != 1.5 {
		t.Errorf("entry[0] = %+v", result.Entries[0])
	}
	if result.Entries[1].Fields["$"] != `{"title":"second"}` {
		t.Errorf("entry[1] fields = %v", result.Entries[1].Fields)
	}

	joined := strings.Join(captured, " ")
	for _, want := range []string{`"hello world"`, "WITHSCORES", "LIMIT 40 20", "DIALECT 2"} {
		if !strings.Contains(joined, want) {
			t.Errorf("FT.SEARCH args = %q, missing %q", joined, want)
		}
	}
}

func TestSearchText_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	q, _ := query.BuildText("nothing")

	s := NewStoreForTest(c)
	result, err := s.SearchText(context.Background(), &db.TextQuery{
		IndexName: "docs-idx",
		Query:     q,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 || len(result.Entries) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestSearchText_Validation(t *testing.T) {
	s := NewStoreForTest(nil) // client not called

	q, _ := query.BuildText("x")
	tests := []struct {
		name string
		q    *db.TextQuery
	}{
		{"no index", &db.TextQuery{Query: q, Limit: 10}},
		{"no query", &db.TextQuery{IndexName: "idx", Limit: 10}},
		{"zero limit", &db.TextQuery{IndexName: "idx", Query: q}},
		{"negative offset", &db.TextQuery{IndexName: "idx", Query: q, Limit: 10, Offset: -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.SearchText(context.Background(), tc.q); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSearchKNN_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var captured []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			captured = cmd
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1), // total
			mock.RedisString("docs:1"),
			mock.RedisArray(
				mock.RedisString("__geo_score"),
				mock.RedisString("0.015625"),
				mock.RedisString("$"),
				mock.RedisString(`{"title":"near"}`),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName:    "docs-idx",
		Vector:       []float32{0.1, 0.2, 0.3},
		K:            25,
		ReturnFields: []string{"$", "__geo_score"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Total != 1 {
		t.Fatalf("expected total 1, got %d", result.Total)
	}
	// KNN scores pass through as raw L2 distances
	if result.Entries[0].Score != 0.015625 {
		t.Errorf("expected score 0.015625, got %f", result.Entries[0].Score)
	}
	if _, ok := result.Entries[0].Fields["__geo_score"]; ok {
		t.Error("score attribute should be stripped from fields")
	}

	joined := strings.Join(captured, " ")
	for _, want := range []string{"*=>[KNN 25 @geo $BLOB]", "SORTBY __geo_score", "PARAMS 2 BLOB", "DIALECT 2"} {
		if !strings.Contains(joined, want) {
			t.Errorf("FT.SEARCH args = %q, missing %q", joined, want)
		}
	}
}

func TestSearchKNN_SkipsEntriesWithoutScore(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(3),
			mock.RedisString("docs:noscore"),
			mock.RedisArray(
				mock.RedisString("$"),
				mock.RedisString(`{"title":"no score"}`),
			),
			mock.RedisString("docs:badscore"),
			mock.RedisArray(
				mock.RedisString("__geo_score"),
				mock.RedisString("not-a-number"),
				mock.RedisString("$"),
				mock.RedisString(`{"title":"bad score"}`),
			),
			mock.RedisString("docs:ok"),
			mock.RedisArray(
				mock.RedisString("__geo_score"),
				mock.RedisString("0.25"),
				mock.RedisString("$"),
				mock.RedisString(`{"title":"scored"}`),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName:    "docs-idx",
		Vector:       []float32{0.1, 0.2, 0.3},
		K:            25,
		ReturnFields: []string{"$", "__geo_score"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Entries without a usable distance would surface as zero meters away.
	if len(result.Entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(result.Entries))
	}
	if result.Entries[0].Key != "docs:ok" || result.Entries[0].Score != 0.25 {
		t.Errorf("entry = %+v", result.Entries[0])
	}
}

func TestSearchKNN_WithFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var captured []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			captured = cmd
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	q, _ := query.BuildText("coffee")

	s := NewStoreForTest(c)
	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "docs-idx",
		Filter:    q,
		Vector:    []float32{0.1, 0.2, 0.3},
		K:         5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	joined := strings.Join(captured, " ")
	if !strings.Contains(joined, "(@title|content|author:(coffee))=>[KNN 5 @geo $BLOB]") {
		t.Errorf("FT.SEARCH args = %q, missing hybrid filter", joined)
	}
}

func TestSearchKNN_Validation(t *testing.T) {
	s := NewStoreForTest(nil) // client not called

	tests := []struct {
		name string
		q    *db.KNNQuery
	}{
		{"no index", &db.KNNQuery{Vector: []float32{1}, K: 1}},
		{"no vector", &db.KNNQuery{IndexName: "idx", K: 1}},
		{"zero k", &db.KNNQuery{IndexName: "idx", Vector: []float32{1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.SearchKNN(context.Background(), tc.q); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestVectorToBytes(t *testing.T) {
	b := vectorToBytes([]float32{1.0})
	if len(b) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(b))
	}
	// 1.0 as float32 little-endian is 00 00 80 3f
	if b[0] != 0x00 || b[1] != 0x00 || b[2] != 0x80 || b[3] != 0x3f {
		t.Errorf("unexpected encoding: %x", b)
	}
}

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
