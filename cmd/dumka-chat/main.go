// Command dumka-chat is a terminal client for the пані Думка assistant: text
// chat with the model, one-shot spoken answers, a full-duplex live voice mode
// and the registry/referral helpers, all from a prompt.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SmileAfterBurn/social-map-care/internal/dotenv"
	"github.com/SmileAfterBurn/social-map-care/pkg/assistant"
	"github.com/SmileAfterBurn/social-map-care/pkg/audio"
	"github.com/SmileAfterBurn/social-map-care/pkg/gemini"
	"github.com/SmileAfterBurn/social-map-care/pkg/live"
	"github.com/SmileAfterBurn/social-map-care/pkg/referral"
	"github.com/SmileAfterBurn/social-map-care/pkg/registry"
)

func main() {
	configPath := flag.String("config", "", "path to an assistant TOML config (optional)")
	envPath := flag.String("env", ".env", "dotenv file holding the API credential")
	role := flag.String("role", "Partner", "session role for registry export (Guest, Partner, Manager, Admin, Creator)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	setupLogging(*verbose)

	if err := run(*configPath, *envPath, registry.Role(*role)); err != nil {
		slog.Error("dumka-chat failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func run(configPath, envPath string, role registry.Role) error {
	if err := dotenv.LoadFile(envPath); err != nil {
		return err
	}
	apiKey := dotenv.APIKey()
	if apiKey == "" {
		return fmt.Errorf("no API credential: set GEMINI_API_KEY (or API_KEY) in the environment or %s", envPath)
	}

	cfg, err := assistant.LoadConfig(configPath)
	if err != nil {
		return err
	}
	slog.Debug("assistant configured",
		"fast_model", cfg.FastModel,
		"deep_model", cfg.DeepModel,
		"live_model", cfg.LiveModel,
		"voice", cfg.Voice,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &app{
		client:     gemini.New(apiKey, cfg),
		cfg:        cfg,
		role:       role,
		voice:      assistant.Voice(cfg.Voice),
		transcript: &assistant.Transcript{},
		orgs:       seedOrganizations,
		out:        os.Stdout,
	}
	return app.loop(ctx, bufio.NewScanner(os.Stdin))
}

// app is the interactive session state.
type app struct {
	client     *gemini.Client
	cfg        *assistant.Config
	role       registry.Role
	voice      assistant.Voice
	deep       bool
	transcript *assistant.Transcript
	orgs       []registry.Organization
	out        io.Writer
}

func (a *app) loop(ctx context.Context, scanner *bufio.Scanner) error {
	fmt.Fprintf(a.out, "Вітаю! Пані Думка слухає. База: %d організацій. Наберіть /help для команд.\n", len(a.orgs))

	for {
		fmt.Fprint(a.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/exit" || line == "/quit" {
			return nil
		}
		if err := a.handle(ctx, scanner, line); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(a.out, "помилка: %v\n", err)
		}
	}
}

func (a *app) handle(ctx context.Context, scanner *bufio.Scanner, line string) error {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "/help":
		a.printHelp()
		return nil
	case "/deep":
		a.deep = !a.deep
		fmt.Fprintf(a.out, "глибокий аналіз: %v\n", a.deep)
		return nil
	case "/voice":
		return a.setVoice(rest)
	case "/speak":
		return a.speak(ctx, rest)
	case "/summary":
		return a.summary(ctx)
	case "/find":
		a.find(rest)
		return nil
	case "/export":
		return a.export()
	case "/refer":
		return a.refer(rest)
	case "/history":
		a.printHistory()
		return nil
	case "/live":
		return a.liveMode(ctx, scanner)
	default:
		if strings.HasPrefix(cmd, "/") {
			fmt.Fprintln(a.out, "невідома команда; /help для списку")
			return nil
		}
		return a.ask(ctx, line)
	}
}

func (a *app) printHelp() {
	fmt.Fprintln(a.out, "Команди:")
	fmt.Fprintln(a.out, "  <текст>                     — запитати пані Думку")
	fmt.Fprintln(a.out, "  /deep                       — перемкнути глибокий аналіз")
	fmt.Fprintln(a.out, "  /speak <текст>              — озвучити відповідь")
	fmt.Fprintln(a.out, "  /voice [назва]              — показати або вибрати голос")
	fmt.Fprintln(a.out, "  /summary                    — коротке зведення по базі")
	fmt.Fprintln(a.out, "  /find <термін>              — пошук організацій")
	fmt.Fprintln(a.out, "  /export                     — вивантажити реєстр у CSV")
	fmt.Fprintln(a.out, "  /refer <ПІБ>;<дата>;<адреса>;<термін орг.> — лист перенаправлення")
	fmt.Fprintln(a.out, "  /history                    — журнал розмови")
	fmt.Fprintln(a.out, "  /live                       — голосовий режим (ffmpeg/ffplay)")
	fmt.Fprintln(a.out, "  /exit                       — вийти")
}

func (a *app) ask(ctx context.Context, query string) error {
	a.transcript.Append(assistant.NewMessage(assistant.RoleUser, query))

	result, err := a.client.Analyze(ctx, query, len(a.orgs), a.deep)
	if err != nil {
		return err
	}

	msg := assistant.NewMessage(assistant.RoleModel, result.Text)
	msg.GroundingLinks = result.GroundingLinks
	a.transcript.Append(msg)

	fmt.Fprintln(a.out, result.Text)
	for _, link := range result.GroundingLinks {
		fmt.Fprintf(a.out, "  [%s] %s\n", link.Title, link.URI)
	}
	for _, call := range result.FunctionCalls {
		slog.Info("model requested a tool", "name", call.Name, "args", call.Args)
	}
	return nil
}

func (a *app) summary(ctx context.Context) error {
	text, err := a.client.Summarize(ctx, len(a.orgs))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, text)
	return nil
}

func (a *app) setVoice(name string) error {
	if name == "" {
		for _, id := range assistant.ExposedVoices {
			marker := " "
			if id.Voice == a.voice {
				marker = "*"
			}
			fmt.Fprintf(a.out, " %s %s (%s) — %s\n", marker, id.Name, id.Voice, id.Description)
		}
		return nil
	}
	for _, id := range assistant.ExposedVoices {
		if strings.EqualFold(id.Name, name) || strings.EqualFold(string(id.Voice), name) {
			a.voice = id.Voice
			fmt.Fprintf(a.out, "голос: %s (%s)\n", id.Name, id.Voice)
			return nil
		}
	}
	if v := assistant.Voice(name); assistant.ValidVoice(v) {
		a.voice = v
		fmt.Fprintf(a.out, "голос: %s\n", v)
		return nil
	}
	return fmt.Errorf("невідомий голос %q", name)
}

func (a *app) speak(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("вкажіть текст: /speak <текст>")
	}
	pcm, err := a.client.Synthesize(ctx, text, a.voice)
	if err != nil {
		return err
	}
	buf, err := audio.PCM16ToBuffer(pcm, audio.PlaybackSampleRate, 1)
	if err != nil {
		return err
	}

	player, err := newFFplayPlayer()
	if err != nil {
		return err
	}
	defer player.Close()
	if _, err := player.Play(buf, 0); err != nil {
		return err
	}

	// Let ffplay drain its pipe before the deferred kill.
	wait := time.Duration(buf.Duration()*float64(time.Second)) + 300*time.Millisecond
	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}
	return nil
}

func (a *app) find(term string) {
	matches := registry.Filter(a.orgs, term)
	if len(matches) == 0 {
		fmt.Fprintln(a.out, "нічого не знайдено")
		return
	}
	for _, org := range matches {
		fmt.Fprintf(a.out, "%s  %s — %s (%s)\n", org.ID, org.Name, registry.RegionLabel(org.Region), org.Status)
	}
}

func (a *app) export() error {
	if !a.role.CanExport() {
		return fmt.Errorf("роль %s не має права на вивантаження", a.role)
	}
	csv := registry.ExportCSV(a.orgs, a.role.Privileged())
	name := registry.ExportFilename(time.Now())
	if err := os.WriteFile(name, []byte(csv), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(a.out, "збережено %s (%d записів, бюджети: %v)\n", name, len(a.orgs), a.role.Privileged())
	return nil
}

// refer composes a referral letter: /refer ПІБ;дата народження;адреса;термін
// пошуку організації. The first matching organization receives the letter.
func (a *app) refer(rest string) error {
	parts := strings.Split(rest, ";")
	if len(parts) != 4 {
		return fmt.Errorf("формат: /refer <ПІБ>;<дата народження>;<адреса>;<термін орг.>")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	matches := registry.Filter(a.orgs, parts[3])
	if len(matches) == 0 {
		return fmt.Errorf("організацію за запитом %q не знайдено", parts[3])
	}
	org := matches[0]

	form := referral.Form{
		ClientName: parts[0],
		ClientDOB:  parts[1],
		Address:    parts[2],
		Priority:   referral.PriorityStandard,
		Needs:      []string{referral.NeedsOptions[0]},
	}
	email := referral.BuildEmail(form, org.Name, org.Email)

	fmt.Fprintf(a.out, "Кому: %s\nТема: %s\n\n%s\n\n", email.To, email.Subject, email.Body)
	fmt.Fprintf(a.out, "mailto: %s\n", email.MailtoURL())
	fmt.Fprintf(a.out, "архівна назва: %s\n", referral.ArchiveFilename(org.Region, org.Name, time.Now()))
	return nil
}

func (a *app) printHistory() {
	for _, msg := range a.transcript.Messages() {
		tag := "думка"
		if msg.Role == assistant.RoleUser {
			tag = "ви"
		}
		suffix := ""
		if msg.Live {
			suffix = " (live)"
		}
		fmt.Fprintf(a.out, "[%s]%s %s\n", tag, suffix, msg.Text)
	}
}

func (a *app) liveMode(ctx context.Context, scanner *bufio.Scanner) error {
	player, err := newFFplayPlayer()
	if err != nil {
		return err
	}
	defer player.Close()

	session, err := live.NewSession(live.Options{
		Dial: func(ctx context.Context) (live.Transport, error) {
			return a.client.DialLive(ctx, a.voice)
		},
		Source: newFFmpegSource(),
		Player: player,
		Callbacks: live.Callbacks{
			OnStatusChange: func(active bool) {
				slog.Info("live session status", "active", active)
			},
			OnTranscription: func(text string, role assistant.MessageRole) {
				a.transcript.AppendLive(role, text)
				tag := "думка"
				if role == assistant.RoleUser {
					tag = "ви"
				}
				fmt.Fprintf(a.out, "[%s] %s\n", tag, text)
			},
			OnFunctionCall: func(call assistant.FunctionCallRequest) {
				slog.Info("live tool call", "name", call.Name, "args", call.Args)
			},
		},
	})
	if err != nil {
		return err
	}

	if err := session.Connect(ctx); err != nil {
		return err
	}
	defer session.Disconnect()

	fmt.Fprintln(a.out, "Голосовий режим увімкнено. Говоріть; /stop завершує.")
	for {
		if !scanner.Scan() {
			return scanner.Err()
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "/stop", "/exit", "/quit":
			session.Disconnect()
			if err := session.Err(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Голосовий режим вимкнено.")
			return nil
		default:
			fmt.Fprintln(a.out, "команди в голосовому режимі: /stop")
		}
	}
}
