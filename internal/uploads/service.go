package uploads

import (
	"context"
	"sync"
)

type Item struct {
	Key         string
	ContentType string
	Data        []byte
}

type Result struct {
	Key string
	URL string
	Err error
}

type Service struct {
	pool    *Pool
	storage Storage
}

func NewService(pool *Pool, storage Storage) *Service {
	return &Service{pool: pool, storage: storage}
}

// UploadAll fans the batch out across the pool and joins on every item before
// returning. Results come back in input order with per-item errors; nothing
// already uploaded is rolled back here.
func (s *Service) UploadAll(ctx context.Context, items []Item) []Result {
	results := make([]Result, len(items))
	var wg sync.WaitGroup

	for i := range items {
		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			url, err := s.storage.Put(ctx, items[i].Key, items[i].ContentType, items[i].Data)
			results[i] = Result{Key: items[i].Key, URL: url, Err: err}
		}
		if err := s.pool.Submit(task); err != nil {
			// queue saturated: run inline rather than dropping the item
			task()
		}
	}

	wg.Wait()
	return results
}
