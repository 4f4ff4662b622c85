package server

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"warlock/internal/game"
	"warlock/internal/net"
)

var ErrBadCommand = errors.New("bad command")

// command runs a host chat command: "-<cvar> <value>", "-give_gold
// <player> <amount>" or "-restart_round".
func (s *Server) command(c *client, text string) error {
	fields := strings.Fields(strings.TrimPrefix(text, "-"))
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	if !s.isHost(c) {
		return ErrNotHost
	}
	if err := s.arena.Cvars().Authorize(name, s.arena.Phase()); err != nil {
		return err
	}

	switch name {
	case game.CmdRestartRound:
		if err := s.arena.RestartRound(); err != nil {
			return err
		}
		s.log.Info().Str("by", c.player.Name).Msg("round restarted")
		return nil

	case game.CmdGiveGold:
		if len(args) != 2 {
			return fmt.Errorf("%w: usage -%s <player> <amount>", ErrBadCommand, name)
		}
		amount, err := parseValue(args[1])
		if err != nil {
			return err
		}
		p, err := s.arena.GiveGold(args[0], amount)
		if err != nil {
			return err
		}
		s.Broadcast(&net.ChatMessage{From: serverName, Text: fmt.Sprintf("%s received %d gold", p.Name, amount)})
		return nil

	default:
		if len(args) != 1 {
			return fmt.Errorf("%w: usage -%s <value>", ErrBadCommand, name)
		}
		v, err := parseValue(args[0])
		if err != nil {
			return err
		}
		_, err = s.arena.SetCvar(name, v)
		return err
	}
}

func parseValue(arg string) (int32, error) {
	v, err := strconv.ParseInt(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrBadCommand, arg)
	}
	return int32(v), nil
}
