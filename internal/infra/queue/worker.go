package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/usecase"
)

// IngestPayload is what external scrapers publish: a batch of raw records
// plus the source tag they came from.
type IngestPayload struct {
	Source  string              `json:"source"`
	Records []usecase.RawRecord `json:"records"`
}

// Worker consumes raw lead batches from the ingest queue and runs them
// through the same normalize-and-upsert path as the HTTP API.
type Worker struct {
	Channel *amqp.Channel
	Ingest  *usecase.IngestLeadsUseCase
}

func NewWorker(ch *amqp.Channel, ingest *usecase.IngestLeadsUseCase) *Worker {
	return &Worker{Channel: ch, Ingest: ingest}
}

func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	log.Printf("worker: consuming from %q", queueName)

	for {
		select {
		case <-ctx.Done():
			log.Println("worker: stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				log.Println("worker: channel closed")
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload IngestPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		log.Printf("worker: invalid JSON, dead-lettering: %v", err)
		// Malformed message; reject without requeue so it lands in the DLQ
		// instead of blocking the queue.
		d.Nack(false, false)
		return
	}

	out, err := w.Ingest.Execute(ctx, usecase.IngestInput{
		Source:  payload.Source,
		Records: payload.Records,
	})
	if err != nil {
		log.Printf("worker: ingest failed: %v", err)
		d.Nack(false, false)
		return
	}

	log.Printf("worker: batch done (source=%s inserted=%d updated=%d)",
		payload.Source, out.Inserted, out.Updated)
	d.Ack(false)
}
