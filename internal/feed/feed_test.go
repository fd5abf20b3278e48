package feed

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_PublishDeliversToKey(t *testing.T) {
	b := NewBroker[[]int]()

	var got [][]int
	sub := b.Subscribe("u1", func(s []int) { got = append(got, s) })
	defer sub.Close()

	other := 0
	subOther := b.Subscribe("u2", func([]int) { other++ })
	defer subOther.Close()

	b.Publish("u1", []int{1})
	b.Publish("u1", []int{1, 2})

	require.Equal(t, [][]int{{1}, {1, 2}}, got)
	assert.Equal(t, 0, other)
}

func TestSubscription_CloseStopsDelivery(t *testing.T) {
	b := NewBroker[int]()

	calls := 0
	sub := b.Subscribe("u1", func(int) { calls++ })
	require.Equal(t, 1, b.Subscribers("u1"))

	b.Publish("u1", 1)
	sub.Close()
	sub.Close()
	b.Publish("u1", 2)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.Subscribers("u1"))
}

func TestSubscription_NilCloseIsSafe(t *testing.T) {
	var sub *Subscription
	assert.NotPanics(t, sub.Close)
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker[int]()
	calls := 0
	sub := b.Subscribe("u1", func(int) { calls++ })

	b.Close()
	b.Publish("u1", 1)
	assert.Equal(t, 0, calls)
	assert.NotPanics(t, sub.Close)
}

func TestBroker_ConcurrentSubscribeAndPublish(t *testing.T) {
	b := NewBroker[int]()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := b.Subscribe("u1", func(int) {})
			sub.Close()
		}()
		go func(v int) {
			defer wg.Done()
			b.Publish("u1", v)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, b.Subscribers("u1"))
}

func TestLatest_KeepsNewest(t *testing.T) {
	l := NewLatest[int]()
	l.Put(1)
	l.Put(2)
	l.Put(3)

	assert.Equal(t, 3, <-l.C())
	select {
	case v := <-l.C():
		t.Fatalf("unexpected pending value %d", v)
	default:
	}
}

func TestBroker_SubscribeWithDeliversInitialSnapshot(t *testing.T) {
	b := NewBroker[int]()

	var got []int
	sub, err := b.SubscribeWith("u1", func(v int) { got = append(got, v) }, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	defer sub.Close()

	b.Publish("u1", 8)
	assert.Equal(t, []int{7, 8}, got)
}

func TestBroker_SubscribeWithLoadError(t *testing.T) {
	b := NewBroker[int]()

	sub, err := b.SubscribeWith("u1", func(int) {}, func() (int, error) { return 0, assert.AnError })
	require.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, sub)
	assert.Equal(t, 0, b.Subscribers("u1"))
}

func TestBroker_RefreshSkipsLoadWithoutSubscribers(t *testing.T) {
	b := NewBroker[int]()

	loads := 0
	load := func() (int, error) { loads++; return loads, nil }
	require.NoError(t, b.Refresh("u1", load))
	assert.Equal(t, 0, loads)

	var got []int
	sub := b.Subscribe("u1", func(v int) { got = append(got, v) })
	defer sub.Close()

	require.NoError(t, b.Refresh("u1", load))
	assert.Equal(t, []int{1}, got)
}

func TestBroker_SlowRefreshDoesNotBlockOtherKeys(t *testing.T) {
	b := NewBroker[int]()

	slow := b.Subscribe("u1", func(int) {})
	defer slow.Close()

	got := make(chan int, 1)
	fast := b.Subscribe("u2", func(v int) { got <- v })
	defer fast.Close()

	loading := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- b.Refresh("u1", func() (int, error) {
			close(loading)
			<-release
			return 1, nil
		})
	}()
	<-loading

	b.Publish("u2", 7)
	assert.Equal(t, 7, <-got)

	close(release)
	require.NoError(t, <-done)
}
