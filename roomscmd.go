package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/woodgrain/goban/rooms"
)

func runRooms(ctx context.Context, cfg *Config, args []string) error {
	page := 1
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid page number: %q", args[0])
		}
		page = n
	}

	client := newRoomsClient(cfg)

	all, err := client.All(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No open rooms.")
		return nil
	}

	pager := rooms.NewPager(all, cfg.pageSize)
	if page > pager.Pages() {
		return fmt.Errorf("page %d out of range (1-%d)", page, pager.Pages())
	}

	details, err := client.DetailPage(ctx, pager, page)
	if err != nil {
		return err
	}

	for _, d := range details {
		status := "waiting"
		if d.IsStarted {
			status = "playing"
		}
		fmt.Printf("%-12s %-20s %d/%d players  %d×%d  %s\n",
			d.ID, d.Name, d.Participants, d.Seats(),
			d.Game.BoardSize, d.Game.BoardSize, status)
	}
	fmt.Printf("page %d/%d (%d rooms)\n", page, pager.Pages(), len(all))

	return nil
}
