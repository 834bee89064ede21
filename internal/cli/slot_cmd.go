package cli

import (
	"github.com/spf13/cobra"

	"github.com/stratako/stratako/internal/cli/formatter"
	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/service"
)

func newSlotCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Manage slots",
	}
	cmd.AddCommand(newOrderedListCmds(a, orderedList[domain.Slot]{
		noun:   "slot",
		svc:    func(a *App) service.OrderedListService[domain.Slot] { return a.Slots },
		id:     slotID,
		name:   slotName,
		render: renderSlots,
	})...)
	return cmd
}

func renderSlots(a *App, cmd *cobra.Command, userID string, slots []*domain.Slot) (string, error) {
	active := make(map[string]string)
	for _, s := range slots {
		if !s.HasActiveOperation() {
			continue
		}
		op, err := a.Operations.Get(cmd.Context(), userID, *s.OperationID)
		if err != nil {
			return "", err
		}
		active[op.ID] = op.Name
	}
	return formatter.FormatSlots(slots, active), nil
}
