package cmd

import (
	"fmt"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/guidekit/internal/config"
	"github.com/abhisek/guidekit/internal/guide"
	"github.com/abhisek/guidekit/internal/llm"
	"github.com/abhisek/guidekit/internal/store"
)

var (
	demoTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8B5CF6"))

	demoStep = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#14B8A6"))

	demoDim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#94A3B8"))

	demoBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#334155")).
		Padding(0, 1)
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk a full session offline with canned model responses",
	Long: "Runs create → start → chat → next → completion against an in-memory\n" +
		"store and a mock provider, printing each state transition. Useful for\n" +
		"verifying the install without API keys.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		provider := llm.NewMockProvider(
			llm.MockResponse{Content: []byte(`{"knowledge_points": [
				{"knowledge_title": "Attention", "knowledge_summary": "Weighted lookups over a sequence.", "user_difficulty": "Confusing query/key/value roles."},
				{"knowledge_title": "Positional encoding", "knowledge_summary": "Injecting order information.", "user_difficulty": "Why sinusoids work."}
			]}`)},
			llm.MockResponse{Content: []byte(`{"title": "Attention", "concept": "Attention scores how relevant each element is to a query.", "key_points": ["Queries, keys, values", "Softmax over scores"], "example_problem": "Given q=[1,0] and keys [[1,0],[0,1]], which key wins?", "example_answer": "The first key: its dot product with q is 1 versus 0.", "check_question": "What does the softmax normalize?", "next_hint": "Move on when the flow of scores makes sense."}`)},
			llm.MockResponse{Content: []byte("The softmax normalizes the attention scores so they sum to 1.")},
			llm.MockResponse{Content: []byte(`{"title": "Positional encoding", "concept": "Order is injected by adding position-dependent vectors.", "key_points": ["Sinusoids at varying frequencies"], "example_problem": "Why can't plain attention see order?", "example_answer": "It is permutation-invariant without positional signals.", "check_question": "What breaks without positional encoding?", "next_hint": "Finish up with the summary."}`)},
			llm.MockResponse{Content: []byte("# Learning summary\n\nYou covered attention and positional encoding. Nice work.")},
		)

		cfg := config.Default()
		manager := buildManager(cfg, provider, store.NewMemoryRepo())

		records := []guide.LearningRecord{
			{ID: "r1", Type: "note", Title: "Transformers", UserQuery: "how does attention work", Output: "Attention computes weighted sums..."},
		}

		fmt.Println(demoTitle.Render("guidekit demo: offline session walkthrough"))
		fmt.Println()

		sess, err := manager.Create(ctx, "nb-demo", "Transformers 101", records)
		if err != nil {
			return err
		}
		fmt.Println(demoStep.Render("create"), "session", sess.SessionID,
			demoDim.Render(fmt.Sprintf("(%d knowledge points)", len(sess.KnowledgePoints))))
		for i, kp := range sess.KnowledgePoints {
			fmt.Printf("  %d. %s\n", i+1, kp.Title)
		}

		start, err := manager.Start(ctx, sess.SessionID)
		if err != nil {
			return err
		}
		fmt.Println(demoStep.Render("start"), demoDim.Render(fmt.Sprintf("progress %d%%, artifact %d bytes", start.Progress, len(start.HTML))))

		answer, err := manager.Chat(ctx, sess.SessionID, "What does the softmax do here?")
		if err != nil {
			return err
		}
		fmt.Println(demoStep.Render("chat"))
		fmt.Println(demoBox.Render(answer))

		for {
			step, err := manager.Next(ctx, sess.SessionID)
			if err != nil {
				return err
			}
			if step.Completed {
				fmt.Println(demoStep.Render("next"), demoDim.Render("progress 100%, completed"))
				fmt.Println()
				fmt.Println(demoBox.Render(step.Summary))
				break
			}
			fmt.Println(demoStep.Render("next"), demoDim.Render(fmt.Sprintf("progress %d%%, artifact %d bytes", step.Progress, len(step.HTML))))
		}

		fmt.Fprintln(os.Stdout)
		fmt.Println(demoDim.Render(fmt.Sprintf("%d mock completions consumed", provider.CallCount())))
		return nil
	},
}
