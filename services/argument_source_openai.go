package services

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/cyberhope-ai/committee_server/models"
	openai "github.com/sashabaranov/go-openai"
)

var personaPrompts = map[models.PersonaID]string{
	models.PersonaStrictJudge: `You are a strict officiating judge.
Argue strictly from the rulebook - was the call correct by the letter of the rule?
Cite specific rules where possible. No sympathy for game context.`,

	models.PersonaFlowAdvocate: `You are an advocate for game flow.
Argue from pace and continuity - did the call disrupt the game more than the
infraction warranted? Marginal contact should usually play on.`,

	models.PersonaSafetyGuardian: `You are a player safety guardian.
Argue from injury risk - does upholding or overturning this call better
protect players? Safety outweighs flow when they conflict.`,

	models.PersonaLeagueRep: `You are a league office representative.
Argue from consistency - how have comparable calls been ruled this season?
Protect league-wide officiating standards over any single game.`,
}

var roundInstructions = map[int]string{
	1: "This is round 1 (initial positions). State your opening position on the call.",
	2: "This is round 2 (rebuttals). Push back on the weakest opposing position from round 1 and name which persona you are rebutting.",
	3: "This is round 3 (final positions). Give your final position; the committee votes after this round.",
}

// OpenAIArgumentSource generates one argument per persona per round via
// chat completions, one request per persona.
type OpenAIArgumentSource struct {
	model string
}

func NewOpenAIArgumentSource() *OpenAIArgumentSource {
	return &OpenAIArgumentSource{model: openai.GPT4oMini}
}

func (s *OpenAIArgumentSource) FetchRound(ctx context.Context, kase models.CommitteeCase, round int) ([]models.PersonaArgument, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}

	client := openai.NewClient(apiKey)

	args := make([]models.PersonaArgument, 0, len(models.AllPersonaIDs()))
	for _, pid := range models.AllPersonaIDs() {
		arg, err := s.generateArgument(ctx, client, kase, round, pid)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func (s *OpenAIArgumentSource) generateArgument(
	ctx context.Context,
	client *openai.Client,
	kase models.CommitteeCase,
	round int,
	pid models.PersonaID,
) (models.PersonaArgument, error) {

	systemMessage := fmt.Sprintf(`%s

%s

RULES:
1. Start with: STANCE: uphold, overturn, or abstain
2. Then: CONFIDENCE: a number between 0 and 1
3. Then: KEY_POINTS: 2-3 short points separated by semicolons
4. Then: RULE_REFS: rule citations separated by semicolons, or "none"
5. Then 2-4 sentences of reasoning.
6. Keep total under 180 words.`,
		personaPrompts[pid],
		roundInstructions[round],
	)

	userMessage := fmt.Sprintf(`Disputed call under review:

%s

Event: %s, Game: %s.

Give your %s-round position.`,
		kase.OriginalCall, kase.EventID, kase.GameID, models.RoundTypeFor(round),
	)

	resp, err := client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       s.model,
			Temperature: 0.8,
			MaxTokens:   300,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
				{Role: openai.ChatMessageRoleUser, Content: userMessage},
			},
		},
	)
	if err != nil {
		return models.PersonaArgument{}, err
	}

	arg := parsePersonaResponse(resp.Choices[0].Message.Content)
	arg.Round = round
	arg.PersonaID = pid
	return arg, nil
}

var (
	stanceRe    = regexp.MustCompile(`(?i)STANCE:\s*(uphold|overturn|abstain)`)
	confRe      = regexp.MustCompile(`(?i)CONFIDENCE:\s*([0-9.]+)`)
	keyPointsRe = regexp.MustCompile(`(?i)KEY_POINTS:\s*(.+?)(?:\n|$)`)
	ruleRefsRe  = regexp.MustCompile(`(?i)RULE_REFS:\s*(.+?)(?:\n|$)`)
	headerRe    = regexp.MustCompile(`(?im)^(STANCE|CONFIDENCE|KEY_POINTS|RULE_REFS):.*$`)
)

// parsePersonaResponse extracts the structured fields from a persona
// completion, defaulting to a low-confidence abstain when a field is
// missing or malformed.
func parsePersonaResponse(response string) models.PersonaArgument {
	stance := models.StanceAbstain
	if m := stanceRe.FindStringSubmatch(response); len(m) > 1 {
		stance = models.Stance(strings.ToLower(m[1]))
	}

	confidence := 0.5
	if m := confRe.FindStringSubmatch(response); len(m) > 1 {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			confidence = v
		}
	}

	keyPoints := []string{}
	if m := keyPointsRe.FindStringSubmatch(response); len(m) > 1 {
		keyPoints = splitSemicolons(m[1])
	}

	ruleRefs := []string{}
	if m := ruleRefsRe.FindStringSubmatch(response); len(m) > 1 && !strings.EqualFold(strings.TrimSpace(m[1]), "none") {
		ruleRefs = splitSemicolons(m[1])
	}

	reasoning := strings.TrimSpace(headerRe.ReplaceAllString(response, ""))

	return models.PersonaArgument{
		Stance:         stance,
		Confidence:     confidence,
		Reasoning:      reasoning,
		KeyPoints:      keyPoints,
		RuleReferences: ruleRefs,
		EmotionalTone:  "measured",
	}
}

func splitSemicolons(s string) []string {
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
