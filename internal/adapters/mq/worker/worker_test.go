package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/pitchside/internal/adapters/mq/queue"
	worker "github.com/okian/pitchside/internal/adapters/mq/worker"
	model "github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/pillar"
	"github.com/okian/pitchside/internal/domain/radar"
	logging "github.com/okian/pitchside/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	jobs chan queue.Job
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 10)}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan queue.Job {
	return mq.jobs
}

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.jobs) })
	return nil
}

type mockBuilder struct {
	mu     sync.Mutex
	errors map[string]error
	delay  time.Duration
	calls  []string
}

func newMockBuilder() *mockBuilder {
	return &mockBuilder{errors: make(map[string]error)}
}

func (mb *mockBuilder) BuildChart(ctx context.Context, playerID string, p pillar.Pillar) (radar.Chart, error) {
	mb.mu.Lock()
	mb.calls = append(mb.calls, playerID)
	err := mb.errors[playerID]
	delay := mb.delay
	mb.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return radar.Chart{}, ctx.Err()
		}
	}
	if err != nil {
		return radar.Chart{}, err
	}
	return radar.Chart{PlayerID: playerID, Pillar: p, Renderable: true}, nil
}

func (mb *mockBuilder) setError(playerID string, err error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.errors[playerID] = err
}

func await(reply <-chan model.ChartOutcome) (model.ChartOutcome, bool) {
	select {
	case o := <-reply:
		return o, true
	case <-time.After(time.Second):
		return model.ChartOutcome{}, false
	}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		q := newMockQueue()
		builder := newMockBuilder()

		convey.Convey("When creating a worker with custom options", func() {
			w := worker.NewInMemoryWorker(q, builder,
				worker.WithName("test-worker"),
				worker.WithLogger(logging.Nop()),
				worker.WithJobTimeout(time.Second),
			)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a worker", func() {
			w := worker.NewInMemoryWorker(q, builder, worker.WithJobTimeout(50*time.Millisecond))
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			reply := make(chan model.ChartOutcome, 1)

			convey.Convey("And a job succeeds", func() {
				q.jobs <- model.ChartJob{ID: "j1", Index: 3, PlayerID: "p1", Pillar: pillar.Mental, Reply: reply}

				convey.Convey("Then the chart is delivered with the job's index", func() {
					o, ok := await(reply)
					convey.So(ok, convey.ShouldBeTrue)
					convey.So(o.Err, convey.ShouldBeNil)
					convey.So(o.Index, convey.ShouldEqual, 3)
					convey.So(o.JobID, convey.ShouldEqual, "j1")
					convey.So(o.Chart.PlayerID, convey.ShouldEqual, "p1")
					convey.So(o.Chart.Pillar, convey.ShouldEqual, pillar.Mental)
				})
			})

			convey.Convey("And the build fails", func() {
				builder.setError("p2", errors.New("boom"))
				q.jobs <- model.ChartJob{ID: "j2", PlayerID: "p2", Pillar: pillar.Physical, Reply: reply}

				convey.Convey("Then the error is delivered", func() {
					o, ok := await(reply)
					convey.So(ok, convey.ShouldBeTrue)
					convey.So(o.Err, convey.ShouldNotBeNil)
					convey.So(o.Err.Error(), convey.ShouldContainSubstring, "boom")
				})
			})

			convey.Convey("And the build outlives the job timeout", func() {
				builder.mu.Lock()
				builder.delay = time.Second
				builder.mu.Unlock()
				q.jobs <- model.ChartJob{ID: "j3", PlayerID: "p3", Pillar: pillar.Physical, Reply: reply}

				convey.Convey("Then the job fails with a deadline error", func() {
					o, ok := await(reply)
					convey.So(ok, convey.ShouldBeTrue)
					convey.So(errors.Is(o.Err, context.DeadlineExceeded), convey.ShouldBeTrue)
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer shutdownCancel()

				convey.Convey("Then it stops cleanly", func() {
					convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				})
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool over a real queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		builder := newMockBuilder()
		pool := worker.NewPool(3, q, builder, logging.Nop())
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.So(pool.Size(), convey.ShouldEqual, 3)

		convey.Convey("When several jobs are enqueued", func() {
			players := []string{"a", "b", "c", "d", "e"}
			reply := make(chan model.ChartOutcome, len(players))
			for i, p := range players {
				err := q.Enqueue(ctx, model.ChartJob{ID: p, Index: i, PlayerID: p, Pillar: pillar.Technical, Reply: reply})
				convey.So(err, convey.ShouldBeNil)
			}

			convey.Convey("Then every job gets one outcome", func() {
				got := make([]string, len(players))
				for range players {
					o, ok := await(reply)
					convey.So(ok, convey.ShouldBeTrue)
					got[o.Index] = o.Chart.PlayerID
				}
				convey.So(got, convey.ShouldResemble, players)
				convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
			})
		})

		convey.Convey("When a count below one is given", func() {
			p := worker.NewPool(0, queue.NewInMemoryQueue(), builder, nil)

			convey.Convey("Then one worker per CPU is created", func() {
				convey.So(p.Size(), convey.ShouldBeGreaterThan, 0)
			})
		})
	})
}
