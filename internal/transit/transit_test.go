package transit

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/relam-bot/Useless-Project-2.0/internal/models"
)

func TestStubProvider_ReturnsFixedRecord(t *testing.T) {
	// Arrange
	provider := NewStubProvider(zap.NewNop())

	// Act
	status := provider.Current(context.Background(), models.Location{City: "Bengaluru", Country: "India"})

	// Assert
	if status.Status != "Normal service" {
		t.Errorf("Status = %q, want %q", status.Status, "Normal service")
	}
	if status.Note != "No delays reported on main bus and metro lines." {
		t.Errorf("Note = %q", status.Note)
	}
}

func TestStubProvider_IgnoresLocation(t *testing.T) {
	// Arrange
	provider := NewStubProvider(zap.NewNop())

	// Act
	a := provider.Current(context.Background(), models.Location{City: "Bengaluru"})
	b := provider.Current(context.Background(), models.Location{})

	// Assert
	if a != b {
		t.Errorf("status differs by location: %+v vs %+v", a, b)
	}
}
