// Package codec 纯文本读样本、写中位数
package codec

import (
	"bufio"
	"context"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

const maxTokenSize = 1 << 20

// ReadSamples 从 r 读空白分隔的数字写到 out，返回时关闭 out。
// "NaN"、"Inf" 能解析，交给引擎去拒绝。
//
// 阻塞的 Read 放在单独的 goroutine 里，ctx 结束时立刻返回，不等下一次读到数据或 EOF；
// 那个 goroutine 在 Read 返回后自行退出。
func ReadSamples(ctx context.Context, r io.Reader, out chan<- float64) error {
	defer close(out)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tokens := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(tokens)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxTokenSize)
		scanner.Split(bufio.ScanWords)

		for scanner.Scan() {
			select {
			case tokens <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for index := 0; ; index++ {
		var (
			token string
			more  bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case token, more = <-tokens:
		}
		if !more {
			select {
			case err := <-scanErr:
				return errors.Wrap(err, "read samples")
			default:
				return ctx.Err()
			}
		}

		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return errors.Wrapf(err, "token %d (%q) is not a number", index, token)
		}

		select {
		case out <- v:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// WriteMedians 每行写一个值，直到 in 被关闭，然后 flush。
// 不看 ctx：上游出错或被取消时已经产出的中位数也要全部写出去，
// 上游（stream.Adapter）返回时一定会关闭 in。
// in 暂时没有数据时先 flush，实时输入不会卡在缓冲区里。
func WriteMedians(w io.Writer, in <-chan float64) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)

	var writeErr error
	for v := range in {
		if writeErr != nil {
			// 继续读空 in，不让上游卡在发送上
			continue
		}

		buf = strconv.AppendFloat(buf[:0], v, 'f', -1, 64)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			writeErr = errors.Wrap(err, "write median")
			continue
		}
		if len(in) == 0 {
			if err := bw.Flush(); err != nil {
				writeErr = errors.Wrap(err, "flush medians")
			}
		}
	}
	if writeErr != nil {
		return writeErr
	}
	return errors.Wrap(bw.Flush(), "flush medians")
}
