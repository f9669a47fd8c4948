package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/streamhub/config"
	"github.com/d60-Lab/streamhub/internal/model"
	"github.com/d60-Lab/streamhub/internal/repository"
	"github.com/d60-Lab/streamhub/internal/service"
	"github.com/d60-Lab/streamhub/pkg/database"
	"github.com/d60-Lab/streamhub/pkg/lock"
	"github.com/d60-Lab/streamhub/pkg/objectid"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// 压测关系切换：N 个订阅者并发订阅同一个频道，再由 HOT 个请求争抢同一把锁
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer database.Close(db)

	var locker lock.Locker = lock.NewLocal()
	if cfg.Lock.Provider == "redis" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		locker = lock.NewRedis(rdb, cfg.Lock.Expiry, cfg.Lock.Tries)
	}

	subs := repository.NewSubscriptionRepository(db)
	views := repository.NewViewRepository(db)
	toggler := service.NewToggler(repository.NewLikeRepository(db), subs, locker)

	ctx := context.Background()
	N := envInt("N", 10000)
	CONC := envInt("CONC", 8)
	HOT := envInt("HOT", 200)

	// seed users: channel 为被订阅的频道，其余为订阅者
	channel := model.User{ID: objectid.New(), Username: "channel-" + objectid.New()[16:], Password: "p"}
	channel.Email = channel.Username + "@example.com"
	must(0, db.Create(&channel).Error)
	users := make([]model.User, N)
	for i := range users {
		id := objectid.New()
		users[i] = model.User{ID: id, Username: "u" + id[12:], Email: id[12:] + "@example.com", Password: "p"}
	}
	must(0, db.CreateInBatches(&users, 1000).Error)

	// 不同 key：无锁争用
	recs, total := run(N, CONC, func(i int) error {
		_, err := toggler.ToggleSubscription(ctx, users[i].ID, channel.ID)
		return err
	})
	cnt := must(subs.CountByChannel(ctx, channel.ID))
	fmt.Printf("N=%d, CONC=%d, lock=%s\n", N, CONC, cfg.Lock.Provider)
	fmt.Printf("Toggle distinct keys total: %v, per op: %v, p50: %v, p95: %v, p99: %v, subscribers=%d\n",
		total, total/time.Duration(N), pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99), cnt)

	// 同一 key：全部请求串行
	var added, removed atomic.Int64
	hotUser := users[0].ID
	recs, total = run(HOT, CONC, func(int) error {
		res, err := toggler.ToggleVideoLike(ctx, hotUser, channel.ID)
		if err != nil {
			return err
		}
		if res.State == service.StateAdded {
			added.Add(1)
		} else {
			removed.Add(1)
		}
		return nil
	})
	fmt.Printf("Toggle hot key (%d) total: %v, p50: %v, p95: %v, p99: %v, added=%d, removed=%d\n",
		HOT, total, pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99), added.Load(), removed.Load())

	q0 := time.Now()
	list := must(views.Subscribers(ctx, channel.ID))
	fmt.Printf("Query subscribers(%d) latency: %v\n", len(list), time.Since(q0))
}

// run 用 conc 个 worker 执行 n 次 op，返回单次耗时与总耗时
func run(n, conc int, op func(i int) error) ([]time.Duration, time.Duration) {
	if conc > n {
		conc = n
	}
	feed := make(chan int, n)
	for i := 0; i < n; i++ {
		feed <- i
	}
	close(feed)

	out := make(chan time.Duration, n)
	done := make(chan struct{}, conc)
	var failed atomic.Int64
	t0 := time.Now()
	for w := 0; w < conc; w++ {
		go func() {
			for i := range feed {
				st := time.Now()
				if err := op(i); err != nil {
					failed.Add(1)
				}
				out <- time.Since(st)
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < conc; w++ {
		<-done
	}
	total := time.Since(t0)
	close(out)

	recs := make([]time.Duration, 0, n)
	for d := range out {
		recs = append(recs, d)
	}
	if f := failed.Load(); f > 0 {
		fmt.Printf("  failed ops: %d\n", f)
	}
	return recs, total
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
