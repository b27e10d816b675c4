package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted           = errors.New("service not started")
	ErrDuplicateSquadPlayer = errors.New("duplicate player in squad")
	ErrUnknownPlayer        = errors.New("unknown player")
	ErrEmptySquad           = errors.New("squad is empty")
	ErrNoGameweek           = errors.New("no current gameweek")
)
