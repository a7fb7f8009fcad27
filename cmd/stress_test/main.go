package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/cold-storage/internal/adapter/storage"
	"github.com/rl1809/cold-storage/internal/config"
	"github.com/rl1809/cold-storage/internal/core/domain"
	"github.com/rl1809/cold-storage/internal/core/service"
	"github.com/rl1809/cold-storage/internal/port"
)

// sequenceBackend is a store that can also report its high-water mark.
type sequenceBackend interface {
	port.SequenceStore
	Current(ctx context.Context, key domain.SequenceKey) (int64, error)
}

func main() {
	totalRequests := flag.Int("n", 500, "allocations per lot base")
	lotBases := flag.Int("lots", 4, "distinct lot bases allocated in parallel")
	concurrency := flag.Int("c", 64, "concurrent workers")
	flag.Parse()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	store, closeStore := openStore(ctx, cfg)
	defer closeStore()

	allocator := service.NewSequenceAllocator(store)

	// Fresh tenant so every run starts at 1
	tenantID := uuid.New().String()

	var mu sync.Mutex
	issued := make(map[string][]int64, *lotBases)
	failures := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)

	start := time.Now()
	for lot := 0; lot < *lotBases; lot++ {
		lotBase := fmt.Sprintf("S%d", lot+1)
		for i := 0; i < *totalRequests; i++ {
			g.Go(func() error {
				index, err := allocator.Allocate(gctx, tenantID, lotBase)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failures++
					return nil
				}
				issued[lotBase] = append(issued[lotBase], index)
				return nil
			})
		}
	}
	g.Wait()
	elapsed := time.Since(start)

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Backend:          %s\n", cfg.Sequence.Backend)
	fmt.Printf("Tenant:           %s\n", tenantID)
	fmt.Printf("Lot Bases:        %d\n", *lotBases)
	fmt.Printf("Per Lot Base:     %d\n", *totalRequests)
	fmt.Printf("Failed:           %d\n", failures)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	ok := failures == 0
	for lotBase, indices := range issued {
		if missing, dupes := checkContiguous(indices, *totalRequests); missing > 0 || dupes > 0 {
			fmt.Printf("FAIL: %s missing=%d duplicates=%d\n", lotBase, missing, dupes)
			ok = false
			continue
		}

		current, err := store.Current(ctx, domain.SequenceKey{TenantID: tenantID, LotBase: lotBase})
		if err != nil || current != int64(*totalRequests) {
			fmt.Printf("FAIL: %s stored high-water mark %d (err=%v), want %d\n", lotBase, current, err, *totalRequests)
			ok = false
			continue
		}
		fmt.Printf("PASS: %s issued exactly 1..%d\n", lotBase, *totalRequests)
	}

	if !ok {
		os.Exit(1)
	}
}

// checkContiguous reports how far indices are from exactly {1..n}.
func checkContiguous(indices []int64, n int) (missing, dupes int) {
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	seen := make(map[int64]bool, len(indices))
	for _, idx := range indices {
		if seen[idx] {
			dupes++
		}
		seen[idx] = true
	}
	for i := int64(1); i <= int64(n); i++ {
		if !seen[i] {
			missing++
		}
	}
	return missing, dupes
}

func openStore(ctx context.Context, cfg config.Config) (sequenceBackend, func()) {
	if cfg.Sequence.Backend == config.BackendRedis {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB, PoolSize: cfg.Redis.PoolSize})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		return storage.NewRedisAdapter(rdb), func() { rdb.Close() }
	}

	db, err := sqlx.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		log.Fatalf("failed to open mysql: %v", err)
	}
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	if err := storage.Migrate(ctx, db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	return storage.NewMySQLAdapter(db), func() { db.Close() }
}
