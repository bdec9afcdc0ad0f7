package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Serve — цикл чтения строк из r до EOF или отмены ctx. Вывод и приглашения пишутся в w.
// Сигнал из WithInterrupts сбрасывает активную последовательность и печатает новое приглашение.
func (in *Interpreter) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	const op = "terminal/Serve"

	for _, l := range Welcome {
		fmt.Fprintln(w, l)
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		if ctx.Err() != nil {
			in.Cancel()
			return nil
		}

		fmt.Fprint(w, in.Prompt()+" ")

		select {
		case <-ctx.Done():
			in.Cancel()
			fmt.Fprintln(w)
			return nil

		case <-in.interrupts:
			in.Cancel()
			fmt.Fprintln(w, "^C")

		case line := <-lines:
			if ctx.Err() != nil {
				in.Cancel()
				return nil
			}

			for _, l := range in.Handle(ctx, line) {
				fmt.Fprintln(w, l)
			}

		case err := <-scanErr:
			fmt.Fprintln(w)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}

			return nil
		}
	}
}
