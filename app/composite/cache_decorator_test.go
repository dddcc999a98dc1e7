package composite

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/lysyi3m/feed-cache/app/feed"
)

func TestFeedCacheDecoratorDeliversLoadedFeed(t *testing.T) {
	items := uniqueFeed()
	decoratee := &FeedLoaderStub{items: items}
	cache := &FeedCacheSpy{}
	sut := NewFeedLoaderCacheDecorator(decoratee, cache)

	var got []feed.Item
	sut.Load(func(i []feed.Item, err error) {
		if err != nil {
			t.Fatalf("Expected success, got %v", err)
		}
		got = i
	})

	if !reflect.DeepEqual(got, items) {
		t.Errorf("Expected %v, got %v", items, got)
	}
	if decoratee.calls != 1 {
		t.Errorf("Expected decoratee to be loaded once, got %d", decoratee.calls)
	}
	if len(cache.saved) != 1 || !reflect.DeepEqual(cache.saved[0], items) {
		t.Errorf("Expected loaded feed to be cached, got %v", cache.saved)
	}
}

func TestFeedCacheDecoratorIgnoresCacheFailure(t *testing.T) {
	items := uniqueFeed()
	sut := NewFeedLoaderCacheDecorator(&FeedLoaderStub{items: items}, &FeedCacheSpy{err: errAny})

	var (
		got []feed.Item
		err error
	)
	sut.Load(func(i []feed.Item, e error) { got, err = i, e })

	if err != nil {
		t.Errorf("Expected cache failure to be ignored, got %v", err)
	}
	if !reflect.DeepEqual(got, items) {
		t.Errorf("Expected %v, got %v", items, got)
	}
}

func TestFeedCacheDecoratorDoesNotCacheOnLoadFailure(t *testing.T) {
	cache := &FeedCacheSpy{}
	sut := NewFeedLoaderCacheDecorator(&FeedLoaderStub{err: errAny}, cache)

	var err error
	sut.Load(func(_ []feed.Item, e error) { err = e })

	if err != errAny {
		t.Errorf("Expected load error, got %v", err)
	}
	if len(cache.saved) != 0 {
		t.Errorf("Expected nothing cached, got %v", cache.saved)
	}
}

func TestFeedCacheDecoratorCachesEmptyFeed(t *testing.T) {
	cache := &FeedCacheSpy{}
	sut := NewFeedLoaderCacheDecorator(&FeedLoaderStub{items: []feed.Item{}}, cache)

	sut.Load(func([]feed.Item, error) {})

	if len(cache.saved) != 1 || len(cache.saved[0]) != 0 {
		t.Errorf("Expected empty feed to be cached, got %v", cache.saved)
	}
}

func TestFeedCacheDecoratorDoesNotDeliverAfterDispose(t *testing.T) {
	sut := NewFeedLoaderCacheDecorator(&FeedLoaderStub{items: uniqueFeed()}, &FeedCacheSpy{})
	sut.Dispose()

	calls := 0
	sut.Load(func([]feed.Item, error) { calls++ })

	if calls != 0 {
		t.Errorf("Expected no completion after dispose, got %d", calls)
	}
}

func TestImageCacheDecoratorCachesLoadedData(t *testing.T) {
	decoratee := &ImageDataLoaderSpy{}
	cache := &ImageDataCacheSpy{}
	sut := NewImageDataLoaderCacheDecorator(decoratee, cache)
	result := &imageResult{}
	data := []byte("any data")

	sut.LoadImageData(anyURL(), result.completion)
	decoratee.complete(data, nil, 0)

	if len(decoratee.loadedURLs) != 1 {
		t.Errorf("Expected decoratee to be loaded once, got %d", len(decoratee.loadedURLs))
	}
	if len(cache.savedData) != 1 || !bytes.Equal(cache.savedData[0], data) {
		t.Errorf("Expected %q to be cached, got %q", data, cache.savedData)
	}
	if cache.savedURLs[0].String() != anyURL().String() {
		t.Errorf("Expected data cached for %s, got %s", anyURL(), cache.savedURLs[0])
	}
	if result.err != nil || !bytes.Equal(result.data, data) {
		t.Errorf("Expected %q, got %q (%v)", data, result.data, result.err)
	}
}

func TestImageCacheDecoratorIgnoresCacheFailure(t *testing.T) {
	decoratee := &ImageDataLoaderSpy{}
	sut := NewImageDataLoaderCacheDecorator(decoratee, &ImageDataCacheSpy{err: errAny})
	result := &imageResult{}

	sut.LoadImageData(anyURL(), result.completion)
	decoratee.complete([]byte("any data"), nil, 0)

	if result.err != nil {
		t.Errorf("Expected cache failure to be ignored, got %v", result.err)
	}
}

func TestImageCacheDecoratorDoesNotCacheOnLoadFailure(t *testing.T) {
	decoratee := &ImageDataLoaderSpy{}
	cache := &ImageDataCacheSpy{}
	sut := NewImageDataLoaderCacheDecorator(decoratee, cache)
	result := &imageResult{}

	sut.LoadImageData(anyURL(), result.completion)
	decoratee.complete(nil, errAny, 0)

	if result.err != errAny {
		t.Errorf("Expected load error, got %v", result.err)
	}
	if len(cache.savedData) != 0 {
		t.Errorf("Expected nothing cached, got %q", cache.savedData)
	}
}

func TestImageCacheDecoratorForwardsCancel(t *testing.T) {
	decoratee := &ImageDataLoaderSpy{}
	sut := NewImageDataLoaderCacheDecorator(decoratee, &ImageDataCacheSpy{})

	task := sut.LoadImageData(anyURL(), func([]byte, error) {})
	task.Cancel()

	if len(decoratee.cancelledURL) != 1 || decoratee.cancelledURL[0].String() != anyURL().String() {
		t.Errorf("Expected cancel to reach decoratee, got %v", decoratee.cancelledURL)
	}
}

func TestImageCacheDecoratorDoesNotDeliverAfterDispose(t *testing.T) {
	decoratee := &ImageDataLoaderSpy{}
	sut := NewImageDataLoaderCacheDecorator(decoratee, &ImageDataCacheSpy{})
	result := &imageResult{}

	sut.LoadImageData(anyURL(), result.completion)
	sut.Dispose()
	decoratee.complete([]byte("any data"), nil, 0)

	if result.calls != 0 {
		t.Errorf("Expected no completion after dispose, got %d", result.calls)
	}
}
