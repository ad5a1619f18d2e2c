package memo

import (
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestIdentityCache(t *testing.T) {
	Convey("Identity cache (zero TTL)", t, func() {
		cache := New[[]string](0)
		calls := 0
		fetch := func() ([]string, error) {
			calls++
			return []string{"page1", "page2"}, nil
		}

		Convey("Second call with the same key hits the cache", func() {
			first, err := cache.Do("chapter-123", fetch)
			So(err, ShouldBeNil)
			second, err := cache.Do("chapter-123", fetch)
			So(err, ShouldBeNil)

			So(calls, ShouldEqual, 1)
			So(second, ShouldResemble, first)
		})

		Convey("Distinct keys compute independently", func() {
			_, _ = cache.Do("chapter-123", fetch)
			_, _ = cache.Do("chapter-456", fetch)
			So(calls, ShouldEqual, 2)
		})
	})
}

func TestExpiringCache(t *testing.T) {
	Convey("Time-expiring cache", t, func() {
		cache := New[int](590 * time.Second)

		current := time.Unix(1700000000, 0)
		cache.now = func() time.Time { return current }

		calls := 0
		fetch := func() (int, error) {
			calls++
			return calls, nil
		}

		Convey("Within the TTL window the cached value is returned", func() {
			v, err := cache.Do("chapters", fetch)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 1)

			current = current.Add(589 * time.Second)
			v, err = cache.Do("chapters", fetch)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 1)
			So(calls, ShouldEqual, 1)

			Convey("After the TTL elapses, exactly one more invocation occurs", func() {
				current = current.Add(2 * time.Second)
				v, err = cache.Do("chapters", fetch)
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 2)
				So(calls, ShouldEqual, 2)
			})
		})
	})
}

func TestFailuresAreNotCached(t *testing.T) {
	Convey("A failing call is retried, not cached", t, func() {
		cache := New[string](0)
		calls := 0
		boom := errors.New("provider down")

		fn := func() (string, error) {
			calls++
			if calls == 1 {
				return "", boom
			}
			return "ok", nil
		}

		_, err := cache.Do("key", fn)
		So(err, ShouldEqual, boom)

		v, err := cache.Do("key", fn)
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "ok")
		So(calls, ShouldEqual, 2)
	})
}

func TestRefresh(t *testing.T) {
	Convey("Refresh bypasses the cached entry", t, func() {
		cache := New[int](0)
		calls := 0
		fetch := func() (int, error) {
			calls++
			return calls, nil
		}

		_, _ = cache.Do("key", fetch)
		v, err := cache.Refresh("key", fetch)
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 2)
		So(calls, ShouldEqual, 2)

		Convey("And replaces the stored value", func() {
			v, _ = cache.Do("key", fetch)
			So(v, ShouldEqual, 2)
			So(calls, ShouldEqual, 2)
		})
	})
}

func TestConcurrentLookups(t *testing.T) {
	Convey("Concurrent lookups never corrupt the entry table", t, func() {
		cache := New[int](0)

		const workers = 32
		results := make(chan int, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := cache.Do("shared", func() (int, error) { return 42, nil })
				if err == nil {
					results <- v
				}
			}()
		}
		wg.Wait()
		close(results)

		for v := range results {
			So(v, ShouldEqual, 42)
		}

		v, ok := cache.Get("shared")
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, 42)
		So(cache.Len(), ShouldEqual, 1)
	})
}

func TestKey(t *testing.T) {
	Convey("Key", t, func() {
		Convey("Is deterministic for equal argument subsets", func() {
			So(Key("naruto", "MangaDex"), ShouldEqual, Key("naruto", "MangaDex"))
		})

		Convey("Preserves case, ids are opaque tokens", func() {
			So(Key("AB"), ShouldNotEqual, Key("ab"))
		})

		Convey("Distinguishes argument boundaries", func() {
			So(Key("ab", "c"), ShouldNotEqual, Key("a", "bc"))
		})
	})
}
