// Package viz serves live spectrum plots of the transmitted signal over
// HTTP. Producers are polled on an interval, but only while a browser is
// actually looking at their bucket.
package viz

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
)

type ImageContainer struct {
	name string
	data []byte
}

type Producer interface {
	Name() string
	GetImage() *ImageContainer
	AddPlotOption(opt PlotOptions)
}

type Server struct {
	images          map[string]map[string]*ImageContainer
	mu              sync.RWMutex
	port            int
	srv             *http.Server
	producerBuckets map[string]map[string]Producer
	updateInterval  time.Duration
	lastViewed      map[string]time.Time
}

func NewServer(port int, updateInterval time.Duration) *Server {
	return &Server{
		images:          make(map[string]map[string]*ImageContainer),
		producerBuckets: make(map[string]map[string]Producer),
		port:            port,
		lastViewed:      make(map[string]time.Time),
		srv:             &http.Server{Addr: fmt.Sprintf(":%d", port)},
		updateInterval:  updateInterval,
	}
}

func (s *Server) Register(key string, p Producer) {
	s.mu.Lock()
	bucket, ok := s.producerBuckets[key]
	if !ok {
		bucket = make(map[string]Producer)
		s.producerBuckets[key] = bucket
	}
	bucket[p.Name()] = p
	s.mu.Unlock()
}

func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}

func (s *Server) Run(ctx context.Context) error {
	go s.renderLoop(ctx)

	handler := httprouter.New()
	handler.GET("/", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var key string
		s.mu.RLock()
		for name := range s.producerBuckets {
			key = name
			break
		}
		s.mu.RUnlock()

		w.Header().Set("Location", url.PathEscape(fmt.Sprintf("/view/%s", key)))
		w.WriteHeader(http.StatusFound)
	})

	handler.GET("/view/:bucket", s.viewBucket)
	handler.GET("/img/:bucket/:img", s.serveImage)

	s.srv.Handler = handler

	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) renderLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.updateInterval):
			s.mu.Lock()
			buckets := s.producerBuckets
			s.mu.Unlock()

			var wg sync.WaitGroup
			for bucketName, bucket := range buckets {
				s.mu.Lock()
				lastViewed := s.lastViewed[bucketName]
				s.mu.Unlock()
				if time.Since(lastViewed) >= time.Second {
					continue
				}

				for _, producer := range bucket {
					wg.Add(1)
					go func(bucket string, p Producer) {
						defer wg.Done()

						img := p.GetImage()
						if img == nil {
							return
						}

						s.mu.Lock()
						mb, ok := s.images[bucket]
						if !ok {
							mb = make(map[string]*ImageContainer)
							s.images[bucket] = mb
						}
						mb[img.name] = img
						s.mu.Unlock()
					}(bucketName, producer)
				}
			}
			wg.Wait()
		}
	}
}

func (s *Server) viewBucket(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	bucket := params.ByName("bucket")

	s.mu.RLock()
	itemsForBucket, ok := s.producerBuckets[bucket]
	s.mu.RUnlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	s.mu.Lock()
	s.lastViewed[bucket] = time.Now()
	s.mu.Unlock()

	time.Sleep(s.updateInterval)

	s.mu.RLock()
	defer s.mu.RUnlock()

	w.Header().Add("Content-Type", "text/html")
	w.Write([]byte(`<html><head><title>Beacon Viz</title></head>`))

	w.Write([]byte(fmt.Sprintf(`
	<script type="text/javascript">
		var toggleRefresh = true;
		function toggleOn() {
			toggleRefresh = !toggleRefresh;
		}

		function changeBucket() {
			var val = document.getElementById('bucketSelector').value;
			window.location.href = '/view/' + val;
		}
		window.onload = function() {
			for (var i = 0; i < %d; i++) {
				var img = document.getElementById('graph-' + i);
				setInterval(function(image) {
					if (toggleRefresh) {
						image.src = image.src.split("?")[0] + "?" + new Date().getTime();
					}
				}, %d, img);
			}
		}
	</script>`, len(s.producerBuckets), s.updateInterval.Milliseconds())))
	w.Write([]byte(`<body style='background-color: black'>`))

	keys := make([]string, 0, len(s.producerBuckets))
	for key := range s.producerBuckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	w.Write([]byte(`<select id="bucketSelector" onchange="changeBucket()">`))
	for _, bucketName := range keys {
		selected := ""
		if bucketName == bucket {
			selected = " selected"
		}
		w.Write([]byte(fmt.Sprintf(`<option value="%s"%s>%s</option>`, bucketName, selected, bucketName)))
	}
	w.Write([]byte(`</select>`))
	w.Write([]byte(`<button onclick="toggleOn()">Refresh?</button>`))

	keys = make([]string, 0, len(itemsForBucket))
	for key := range itemsForBucket {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	w.Write([]byte(`<div style="display: flex; flex-direction: row; flex-wrap: wrap">`))
	for idx, key := range keys {
		w.Write([]byte(fmt.Sprintf(`<div><img id="graph-%d"
		src="/img/%s/%s?%d" /></div>`, idx, bucket, key, time.Now().UnixMicro())))
	}
	w.Write([]byte(`</div>`))

	w.Write([]byte(`</body></html>`))
}

func (s *Server) serveImage(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	bucketName := params.ByName("bucket")
	imgName := params.ByName("img")

	s.mu.Lock()
	s.lastViewed[bucketName] = time.Now()
	s.mu.Unlock()

	s.mu.RLock()
	var img *ImageContainer
	bucket, ok := s.images[bucketName]
	if ok {
		img, ok = bucket[imgName]
	}
	s.mu.RUnlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Add("Content-Type", "image/png")
	w.Write(img.data)
}
