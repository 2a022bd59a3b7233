package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	queue "github.com/jnpushkin/nba-processor/internal/adapters/mq/queue"
	worker "github.com/jnpushkin/nba-processor/internal/adapters/mq/worker"
	"github.com/jnpushkin/nba-processor/internal/domain/career"
	"github.com/jnpushkin/nba-processor/internal/domain/ledger"
	"github.com/jnpushkin/nba-processor/internal/domain/milestone"
	"github.com/jnpushkin/nba-processor/internal/domain/model"
)

// Mock implementations for testing.
type mockQueue struct {
	batchChan chan worker.Batch
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		batchChan: make(chan worker.Batch, 10),
	}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan worker.Batch {
	return mq.batchChan
}

func (mq *mockQueue) Close() error {
	close(mq.batchChan)
	return nil
}

func (mq *mockQueue) addBatch(b worker.Batch) {
	mq.batchChan <- b
}

// resultSink collects results as workers finish players.
type resultSink struct {
	mu      sync.Mutex
	results []worker.Result
}

func (s *resultSink) PlayerProcessed(_ context.Context, res worker.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, res)
}

func (s *resultSink) byPlayer(playerID string) (worker.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.results {
		if r.PlayerID == playerID {
			return r, true
		}
	}
	return worker.Result{}, false
}

func (s *resultSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

func statLine(playerID, gameID string, date time.Time, points, rebounds, assists int) model.GameStatLine {
	return model.GameStatLine{
		PlayerID:   playerID,
		PlayerName: playerID,
		Team:       "DEN",
		Opponent:   "MIN",
		GameID:     gameID,
		Date:       date,
		Points:     points,
		Rebounds:   rebounds,
		Assists:    assists,
		FGMade:     points / 3,
		FGAttempts: points,
		Minutes:    30,
	}
}

func TestWorkerProcessing(t *testing.T) {
	convey.Convey("Given a worker wired to real domain components", t, func() {
		ctx := context.Background()
		mq := newMockQueue()
		ev := milestone.NewEvaluator()
		tr := career.NewTracker()
		led := ledger.NewInMemoryLedger()
		sink := &resultSink{}

		w := worker.NewWorker(mq, ev, tr, led, sink, worker.WithName("test-worker"))
		go w.Run(ctx)

		day := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

		convey.Convey("When a clean batch produces milestones", func() {
			mq.addBatch(worker.Batch{
				PlayerID: "jokic01",
				Lines: []model.GameStatLine{
					statLine("jokic01", "g1", day, 28, 14, 12),
				},
			})
			_ = mq.Close()
			<-w.Done()

			convey.Convey("Then the sink should receive the committed result", func() {
				res, ok := sink.byPlayer("jokic01")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(res.Err, convey.ShouldBeNil)
				convey.So(res.Games, convey.ShouldEqual, 1)
				convey.So(len(res.Achievements), convey.ShouldBeGreaterThan, 0)
				convey.So(res.FinalTotals.Total(model.CategoryPoints), convey.ShouldEqual, 28)
			})

			convey.Convey("And the milestones should be recorded in the ledger", func() {
				res, _ := sink.byPlayer("jokic01")
				for _, a := range res.Achievements {
					convey.So(led.Has(ctx, a.WitnessKey()), convey.ShouldBeTrue)
				}
			})
		})

		convey.Convey("When a batch crosses a career threshold", func() {
			baseline := model.NewCareerTotals("james01")
			baseline.AsOf = day.AddDate(0, 0, -3)
			baseline.Totals[model.CategoryPoints] = 9980

			mq.addBatch(worker.Batch{
				PlayerID: "james01",
				Baseline: &baseline,
				Lines: []model.GameStatLine{
					statLine("james01", "g1", day, 25, 11, 9),
				},
			})
			_ = mq.Close()
			<-w.Done()

			convey.Convey("Then the crossing should surface in the result", func() {
				res, ok := sink.byPlayer("james01")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(res.Err, convey.ShouldBeNil)
				convey.So(res.CareerEvents, convey.ShouldHaveLength, 1)
				convey.So(res.CareerEvents[0].Category, convey.ShouldEqual, model.CategoryPoints)
				convey.So(res.CareerEvents[0].Threshold, convey.ShouldEqual, 10000)
				convey.So(res.CareerEvents[0].TotalAfter, convey.ShouldEqual, 10005)
			})
		})

		convey.Convey("When a batch contains a malformed line", func() {
			bad := statLine("bad01", "g1", day, 20, 5, 3)
			bad.FGMade = bad.FGAttempts + 1

			mq.addBatch(worker.Batch{
				PlayerID: "bad01",
				Lines: []model.GameStatLine{
					statLine("bad01", "g0", day.AddDate(0, 0, -1), 30, 11, 4),
					bad,
				},
			})
			_ = mq.Close()
			<-w.Done()

			convey.Convey("Then the whole player should fail", func() {
				res, ok := sink.byPlayer("bad01")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(errors.Is(res.Err, model.ErrMalformedStatLine), convey.ShouldBeTrue)
			})

			convey.Convey("And nothing should be committed to the ledger", func() {
				convey.So(led.Size(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When a batch is out of chronological order", func() {
			mq.addBatch(worker.Batch{
				PlayerID: "ooo01",
				Lines: []model.GameStatLine{
					statLine("ooo01", "g2", day.AddDate(0, 0, 2), 35, 4, 3),
					statLine("ooo01", "g1", day, 20, 3, 2),
				},
			})
			_ = mq.Close()
			<-w.Done()

			convey.Convey("Then the ordering error should fail the player", func() {
				res, ok := sink.byPlayer("ooo01")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(errors.Is(res.Err, career.ErrOutOfOrderGame), convey.ShouldBeTrue)
				convey.So(led.Size(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the same milestones were witnessed before", func() {
			line := statLine("rerun01", "g1", day, 52, 3, 2)
			mq.addBatch(worker.Batch{PlayerID: "rerun01", Lines: []model.GameStatLine{line}})
			mq.addBatch(worker.Batch{PlayerID: "rerun01", Lines: []model.GameStatLine{line}})
			_ = mq.Close()
			<-w.Done()

			convey.Convey("Then the second pass should report nothing new", func() {
				convey.So(sink.count(), convey.ShouldEqual, 2)
				sink.mu.Lock()
				defer sink.mu.Unlock()
				first, second := sink.results[0], sink.results[1]
				convey.So(first.Err, convey.ShouldBeNil)
				convey.So(second.Err, convey.ShouldBeNil)
				convey.So(len(first.Achievements), convey.ShouldBeGreaterThan, 0)
				convey.So(second.Achievements, convey.ShouldBeEmpty)
			})
		})
	})
}

func TestWorkerShutdown(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		ctx := context.Background()
		mq := newMockQueue()
		sink := &resultSink{}
		w := worker.NewWorker(mq, milestone.NewEvaluator(), career.NewTracker(),
			ledger.NewInMemoryLedger(), sink)
		go w.Run(ctx)

		convey.Convey("When shutting down gracefully", func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()

			err := w.Shutdown(shutdownCtx)

			convey.Convey("Then it should stop without error", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a worker pool over a real queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		led := ledger.NewInMemoryLedger()
		sink := &resultSink{}
		pool := worker.NewPool(4, q, milestone.NewEvaluator(), career.NewTracker(), led, sink)
		pool.Start(ctx)

		day := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

		convey.Convey("When many players are enqueued", func() {
			const players = 20
			ids := make([]string, 0, players)
			for i := 0; i < players; i++ {
				id := "player" + string(rune('a'+i))
				ids = append(ids, id)
				ok := q.Enqueue(ctx, worker.Batch{
					PlayerID: id,
					Lines: []model.GameStatLine{
						statLine(id, id+"-g1", day, 31, 12, 5),
					},
				})
				convey.So(ok, convey.ShouldBeTrue)
			}
			convey.So(q.Close(), convey.ShouldBeNil)
			pool.Wait()

			convey.Convey("Then every player should be processed exactly once", func() {
				convey.So(sink.count(), convey.ShouldEqual, players)
				for _, id := range ids {
					res, ok := sink.byPlayer(id)
					convey.So(ok, convey.ShouldBeTrue)
					convey.So(res.Err, convey.ShouldBeNil)
				}
			})
		})
	})
}
