package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendora/internal/model"
)

func suggestCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "suggest <description>",
		Short: "Suggest a category for a transaction description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, appOptions{})
			if err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			req := model.SuggestRequest{Description: strings.Join(args, " ")}
			if cmd.Flags().Changed("user") {
				req.UserID = &userID
			}

			suggestion, err := a.engine.ResolveCategory(ctx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Category:"), valueStyle.Render(suggestion.Category))
			fmt.Fprintf(out, "%s %s (%.2f)\n", labelStyle.Render("Source:"), suggestion.Source, suggestion.Confidence)
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Suggestion:"), suggestion.SuggestionID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", model.AnonymousUserID, "user whose history is consulted first")

	return cmd
}

func feedbackCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "feedback <suggestion-id> <category>",
		Short: "Confirm or correct a suggestion",
		Long: `Record the category you actually chose for a suggestion. A category that
differs from the suggestion is remembered for similar descriptions.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid suggestion id %q: %w", args[0], err)
			}

			a, err := newApp(ctx, appOptions{publish: true})
			if err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			req := model.FeedbackRequest{
				SuggestionID:  &id,
				FinalCategory: strings.Join(args[1:], " "),
			}
			if cmd.Flags().Changed("user") {
				req.UserID = &userID
			}

			result, err := a.engine.RecordFeedback(ctx, req)
			if err != nil {
				return err
			}

			verdict := successStyle.Render("accepted")
			if result.Overridden {
				verdict = warnStyle.Render("overridden")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Suggestion %d %s as %s\n", result.SuggestionID, verdict, result.FinalCategory)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", model.AnonymousUserID, "user submitting the feedback")

	return cmd
}
