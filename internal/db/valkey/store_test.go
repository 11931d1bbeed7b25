package valkey

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/hitprint/internal/db"
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

func TestIsValkeyErr(t *testing.T) {
	if isValkeyErr(errors.New("plain"), "plain") {
		t.Error("non-server errors must not match")
	}
}

// --- search.go tests ---

func TestSearch_FTSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.SEARCH", "articles:idx", "@lang:{go}",
			"LIMIT", "0", "10", "DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("articles:2"),
			mock.RedisArray(mock.RedisString("title"), mock.RedisString("B")),
			mock.RedisString("articles:1"),
			mock.RedisArray(mock.RedisString("title"), mock.RedisString("A")),
		)))

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.Query{IndexName: "articles:idx", Expression: "@lang:{go}"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(res.Entries))
	}
	// server order, not key order
	if res.Entries[0].Key != "articles:2" {
		t.Errorf("first key = %s, want articles:2", res.Entries[0].Key)
	}
	if res.Entries[1].Fields["title"] != "A" {
		t.Errorf("fields = %v", res.Entries[1].Fields)
	}
}

func TestSearch_VectorScore(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("doc:1"),
			mock.RedisArray(
				mock.RedisString("__vector_score"), mock.RedisString("0.25"),
			),
		)))

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.Query{
		IndexName:  "idx",
		Expression: "*=>[KNN 1 @vector $BLOB]",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Entries[0].Score != 0.25 {
		t.Errorf("score = %f, want 0.25", res.Entries[0].Score)
	}
	if _, ok := res.Entries[0].Fields["__vector_score"]; !ok {
		t.Error("pseudo-field should stay visible to projection")
	}
}

func TestSearch_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.Search(context.Background(), &db.Query{IndexName: "idx", Expression: "@a:{b}"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped deadline error, got %v", err)
	}
}

func TestSearch_ScanFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN" && cmd[3] == "articles:*"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(0), // cursor=0 means done
			mock.RedisArray(
				mock.RedisString("articles:2"),
				mock.RedisString("articles:1"),
				mock.RedisString("articles:3"),
			),
		)))

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
				"title": mock.RedisString("A"),
				"body":  mock.RedisString("long"),
			})),
			mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
				"title": mock.RedisString("B"),
			})),
		})

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.Query{
		IndexName:    "articles:idx",
		Expression:   "*",
		Limit:        2,
		ReturnFields: []string{"title"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 3 {
		t.Errorf("total = %d, want 3", res.Total)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(res.Entries))
	}
	if res.Entries[0].Key != "articles:1" || res.Entries[1].Key != "articles:2" {
		t.Errorf("expected sorted keys, got %s, %s", res.Entries[0].Key, res.Entries[1].Key)
	}
	if _, ok := res.Entries[0].Fields["body"]; ok {
		t.Error("RETURN narrowing not applied on scan path")
	}
}

func TestSearch_ScanFallback_OffsetPastEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(0), // cursor=0 means done
			mock.RedisArray(mock.RedisString("idx:1")),
		)))

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.Query{IndexName: "idx", Expression: "*", Offset: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 || len(res.Entries) != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestSearchCount_Scan(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(0), // cursor=0 means done
			mock.RedisArray(mock.RedisString("idx:1"), mock.RedisString("idx:2")),
		)))

	s := NewStoreForTest(c)
	n, err := s.SearchCount(context.Background(), "idx", "*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestSearchCount_FTSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx", "@a:{b}", "LIMIT", "0", "0")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(7))))

	s := NewStoreForTest(c)
	n, err := s.SearchCount(context.Background(), "idx", "@a:{b}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("count = %d, want 7", n)
	}
}

func TestIndexToKeyPrefix(t *testing.T) {
	tests := []struct{ in, want string }{
		{"articles:idx", "articles:"},
		{"articles", "articles:"},
	}
	for _, tc := range tests {
		if got := indexToKeyPrefix(tc.in); got != tc.want {
			t.Errorf("indexToKeyPrefix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
