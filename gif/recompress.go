package gif

import (
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/Kreeblah/flexiGIF/container"
	"github.com/Kreeblah/flexiGIF/lzw"
)

// Recompress re-encodes every frame's index stream with opts, encoding
// frames concurrently (one worker per GOMAXPROCS) since frames share no
// dictionary state, then writes the result to w in file order. Output is
// byte-identical regardless of GOMAXPROCS: encoding is embarrassingly
// parallel across frames, but the write order is always the frame order.
func Recompress(w io.Writer, img *Image, opts lzw.Options) error {
	frames := img.Frames()
	encoded := make([][]byte, len(frames))
	errs := make([]error, len(frames))

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int, len(frames))
	for i := range frames {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				frameOpts := opts
				frameOpts.Flavor = lzw.GIF
				frameOpts.MinCodeSize = frames[idx].MinCodeSize
				if frameOpts.MaxCodeSize == 0 {
					frameOpts.MaxCodeSize = 12
				}
				bits, err := lzw.Encode(frames[idx].IndexStream, frameOpts)
				if err != nil {
					errs[idx] = fmt.Errorf("gif: frame %d lzw encode: %w", idx, err)
					continue
				}
				encoded[idx] = bits.Bytes()
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	if _, err := w.Write(img.Header); err != nil {
		return err
	}
	frameIdx := 0
	for _, item := range img.Items {
		switch v := item.(type) {
		case *Block:
			if _, err := w.Write(v.Bytes); err != nil {
				return err
			}
		case *Frame:
			if _, err := w.Write(v.RawHeader); err != nil {
				return err
			}
			sub := container.NewGIFPayloadWriter(w)
			if _, err := sub.Write(encoded[frameIdx]); err != nil {
				return err
			}
			if err := sub.Close(); err != nil {
				return err
			}
			frameIdx++
		}
	}
	_, err := w.Write([]byte{trailer})
	return err
}
