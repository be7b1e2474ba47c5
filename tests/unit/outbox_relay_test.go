package unit

import (
	"context"
	"testing"

	airdropservice "airvault/contexts/distribution-core/airdrop-service"
	"airvault/contexts/distribution-core/airdrop-service/application"
	"airvault/contexts/distribution-core/airdrop-service/application/workers"
	"airvault/contexts/distribution-core/airdrop-service/ports"
	airdrophttp "airvault/contexts/distribution-core/airdrop-service/transport/http"
	custodyservice "airvault/contexts/treasury-core/custody-service"
	custodyentities "airvault/contexts/treasury-core/custody-service/domain/entities"
)

type capturingPublisher struct {
	envelopes []ports.EventEnvelope
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, envelope ports.EventEnvelope) error {
	p.envelopes = append(p.envelopes, envelope)
	return nil
}

func TestOutboxRelayPublishesAirdropEvents(t *testing.T) {
	custody := custodyservice.NewInMemoryModule([]custodyentities.Account{
		{AccountID: adminAccount, Balance: 10000, Receivable: true},
		{AccountID: treasuryAccount, Receivable: true},
	}, nil)
	airdrop := airdropservice.NewInMemoryModule(custody.Service, adminAccount, treasuryAccount, nil)
	ctx := context.Background()

	if _, err := airdrop.Handler.FundHandler(ctx, adminAccount, airdrophttp.FundRequest{Amount: 5000}); err != nil {
		t.Fatalf("fund failed: %v", err)
	}
	if _, err := airdrop.Handler.RegisterHandler(ctx, adminAccount, airdrophttp.RegisterRequest{ParticipantID: "alice"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := airdrop.Handler.ClaimHandler(ctx, "alice"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    airdrop.Store,
		Publisher: publisher,
		Clock:     airdrop.Store,
	}

	published, err := relay.RunOnce(ctx)
	if err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if published != 3 {
		t.Fatalf("expected 3 published events, got %d", published)
	}

	types := make(map[string]int)
	for _, envelope := range publisher.envelopes {
		types[envelope.EventType]++
	}
	for _, expected := range []string{
		application.EventTypeTreasuryFunded,
		application.EventTypeParticipantRegistered,
		application.EventTypeRewardClaimed,
	} {
		if types[expected] != 1 {
			t.Fatalf("expected exactly one %s event, got %d", expected, types[expected])
		}
	}

	// Second pass finds nothing pending.
	published, err = relay.RunOnce(ctx)
	if err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if published != 0 {
		t.Fatalf("expected no pending events on second run, got %d", published)
	}
}
