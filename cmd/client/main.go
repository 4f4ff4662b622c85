package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"warlock/internal/client"
	"warlock/internal/game"
	"warlock/internal/net"
)

var skillKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6}

type Game struct {
	net      *client.NetClient
	state    *client.State
	renderer *client.Renderer
}

func (g *Game) Update() error {
	for {
		m, ok := g.net.Poll()
		if !ok {
			break
		}
		g.state.Apply(m)
	}
	g.handleInput()

	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) handleInput() {
	me, ok := g.state.Self()
	if !ok {
		return
	}
	cursor := g.renderer.ScreenToWorld(ebiten.CursorPosition())

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		queue := ebiten.IsKeyPressed(ebiten.KeyShift)
		g.net.Send(&net.TargetAdded{Name: me.Name, ID: me.ID, Target: cursor, Clear: !queue})
	}
	for i, key := range skillKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.net.Send(&net.SkillCast{
				SkillOpcode: uint8(i + 1),
				Owner:       me.ID,
				Skill:       int32(game.SkillFireball) + int32(i),
				Level:       1,
				Start:       me.Position,
				End:         cursor,
			})
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.net.Send(&net.PlayerReady{})
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		g.net.Send(&net.StartGame{})
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		g.net.Send(&net.RematchRequest{})
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.state)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return client.ScreenWidth, client.ScreenHeight
}

func main() {
	addr := flag.String("addr", "ws://localhost:8080/ws", "server websocket url")
	name := flag.String("name", "Player", "player name")
	password := flag.String("password", os.Getenv("ARENA_PASSWORD"), "join password")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	nc, err := client.Dial(*addr, *name, *password, log)
	if err != nil {
		log.Fatal().Err(err).Str("addr", *addr).Msg("connect")
	}
	defer nc.Close()

	ebiten.SetWindowSize(client.ScreenWidth, client.ScreenHeight)
	ebiten.SetWindowTitle("Warlock arena")

	g := &Game{net: nc, state: client.NewState(), renderer: client.NewRenderer()}
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal().Err(err).Msg("run")
	}
}
