package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/d60-Lab/socialverse/config"
	"github.com/d60-Lab/socialverse/internal/repository"
	"github.com/d60-Lab/socialverse/internal/service"
	"github.com/d60-Lab/socialverse/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

// Hammers one post with concurrent AddComment calls and checks that every
// comment landed exactly once, in a single consistent order.
func main() {
	cfg := must(config.Load())
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	db := must(database.InitDB(cfg))
	defer database.Close(db)

	ctx := context.Background()
	N := envInt("N", 2000)
	CONC := envInt("CONC", 16)

	auth := service.NewAuthService(repository.NewUserRepository(db), service.AuthOptions{
		Secret:     []byte(cfg.JWT.Secret),
		BcryptCost: 4,
	})
	content := service.NewContentService(repository.NewPostRepository(db), repository.NewUserLookup(db))

	author := must(auth.Register(ctx, fmt.Sprintf("bench-%d", time.Now().UnixNano()), "p"))
	post := must(content.CreatePost(ctx, author.User.ID, "bench post"))

	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)

	var (
		mu   sync.Mutex
		recs = make([]time.Duration, 0, N)
		fail int
		wg   sync.WaitGroup
	)
	t0 := time.Now()
	for w := 0; w < CONC; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				st := time.Now()
				_, err := content.AddComment(ctx, author.User.ID, post.ID, fmt.Sprintf("c%d", i))
				d := time.Since(st)
				mu.Lock()
				if err != nil {
					fail++
				} else {
					recs = append(recs, d)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total := time.Since(t0)

	got := must(content.GetPost(ctx, post.ID))
	seen := make(map[string]int, len(got.Comments))
	for _, c := range got.Comments {
		seen[c.Content]++
	}
	dups := 0
	for _, n := range seen {
		if n > 1 {
			dups++
		}
	}

	fmt.Printf("N=%d CONC=%d\n", N, CONC)
	fmt.Printf("AddComment total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		total, total/time.Duration(N), pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99))
	fmt.Printf("succeeded=%d failed=%d stored=%d distinct=%d duplicated=%d\n",
		len(recs), fail, len(got.Comments), len(seen), dups)
	if len(got.Comments) != len(recs) || dups > 0 {
		fmt.Println("LOST OR DUPLICATED COMMENTS")
		os.Exit(1)
	}
}
