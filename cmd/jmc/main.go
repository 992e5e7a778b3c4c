package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/arch-spatula/jmc/internal/sheet"
	"github.com/arch-spatula/jmc/pkg/client"
	"github.com/arch-spatula/jmc/pkg/util"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

const usage = `jmc - 점메추 (점심 메뉴 추천)

Usage:
  jmc                       오늘의 식당 추천
  jmc list                  등록된 식당 목록
  jmc visit <name>          식당을 방문함으로 표시하고 저장
  jmc init                  기본 설정 파일(jmc.toml) 생성
  jmc config                현재 설정 출력
  jmc hash-password <pw>    EDITOR_PASSWORD_HASH 값 생성
  jmc help | -h             도움말
  jmc version | -v          버전
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return recommend(stdout, stderr)
	}

	switch args[0] {
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
	case "version", "-v", "--version":
		fmt.Fprintf(stdout, "jmc %s\n", version)
	case "list":
		return list(stdout, stderr)
	case "visit":
		if len(args) < 2 || strings.TrimSpace(args[1]) == "" {
			fmt.Fprintln(stderr, "Usage: jmc visit <name>")
			return 2
		}
		return visit(args[1], stdout, stderr)
	case "init":
		return initConfig(stdout, stderr)
	case "config":
		return printConfig(stdout, stderr)
	case "hash-password":
		if len(args) < 2 || args[1] == "" {
			fmt.Fprintln(stderr, "Usage: jmc hash-password <password>")
			return 2
		}
		hash, err := util.HashPassword(args[1])
		if err != nil {
			fmt.Fprintln(stderr, "Failed to hash password:", err)
			return 1
		}
		fmt.Fprintln(stdout, hash)
	default:
		fmt.Fprintf(stderr, "알 수 없는 명령입니다: %s\n\n%s", args[0], usage)
		return 2
	}
	return 0
}

func newClient(stderr io.Writer) (*client.Client, bool) {
	cfg, err := client.LoadConfig(client.ConfigPath())
	if err != nil {
		fmt.Fprintln(stderr, err)
		return nil, false
	}
	c, err := client.NewClient(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return nil, false
	}
	return c, true
}

func recommend(stdout, stderr io.Writer) int {
	c, ok := newClient(stderr)
	if !ok {
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rec, err := c.FetchRecommend(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "추천을 가져오지 못했습니다:", err)
		return 1
	}
	if rec == nil {
		fmt.Fprintln(stdout, "추천할 식당이 없습니다")
		return 0
	}

	fmt.Fprintln(stdout, formatRecommendation(rec))
	return 0
}

func formatRecommendation(rec *sheet.Record) string {
	parts := []string{rec.Name, sheet.RatingLabel(rec.Rating)}
	if len(rec.Categories) > 0 {
		parts = append(parts, strings.Join(rec.Categories, ", "))
	}
	if rec.KakaoURL != "" {
		parts = append(parts, rec.KakaoURL)
	}
	return strings.Join(parts, "  ")
}

func list(stdout, stderr io.Writer) int {
	c, ok := newClient(stderr)
	if !ok {
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, err := c.FetchAll(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "목록을 가져오지 못했습니다:", err)
		return 1
	}
	for i := range records {
		fmt.Fprintln(stdout, formatRecommendation(&records[i]))
	}
	return 0
}

// visit marks one restaurant visited through the same edit/collect/save
// cycle the editor uses
func visit(name string, stdout, stderr io.Writer) int {
	c, ok := newClient(stderr)
	if !ok {
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, err := c.FetchAll(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "목록을 가져오지 못했습니다:", err)
		return 1
	}

	table := sheet.LoadTable(records)
	rowID, found := table.Find(name)
	if !found {
		fmt.Fprintf(stderr, "식당을 찾을 수 없습니다: %s\n", name)
		return 1
	}
	if err := table.Edit(rowID, sheet.FieldVisited, sheet.Input{Checked: true}); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	outcome := sheet.NewCoordinator(c, c.FetchAll).Submit(ctx, table)
	if outcome.Err != nil {
		fmt.Fprintln(stderr, "저장하지 못했습니다:", outcome.Message())
		return 1
	}
	fmt.Fprintf(stdout, "%s 방문 완료\n", name)
	return 0
}

func initConfig(stdout, stderr io.Writer) int {
	path := client.ConfigPath()
	created, err := client.WriteDefaultConfig(path)
	if err != nil {
		fmt.Fprintln(stderr, "Failed to write config:", err)
		return 1
	}
	if !created {
		fmt.Fprintf(stdout, "%s already exists\n", path)
		return 0
	}
	fmt.Fprintf(stdout, "Created %s\n", path)
	return 0
}

func printConfig(stdout, stderr io.Writer) int {
	path := client.ConfigPath()
	cfg, err := client.LoadConfig(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	token := "(none)"
	if cfg.Token != "" {
		token = "(set)"
	}
	fmt.Fprintf(stdout, "config:     %s\nserver_url: %s\ntoken:      %s\ntimeout:    %s\n", path, cfg.ServerURL, token, cfg.Timeout.Duration)
	return 0
}
