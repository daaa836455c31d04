// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/haris-hm/gorkminion-voting-machine/models"
)

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n")
}

func Mention(userID string) string {
	return "<@" + userID + ">"
}

func RoleMention(roleID string) string {
	return "<@&" + roleID + ">"
}

// BallotIntro heads each announcement message. Continuation messages get a
// short header.
func BallotIntro(month string, year int, continuation bool) string {
	if continuation {
		return fmt.Sprintf("## 🗳️ %s %d Ballot *(cont.)*\n", month, year)
	}
	return joinLines(
		fmt.Sprintf("## 🗳️ %s %d Ballot", month, year),
		"",
		"It's time to vote for your favorite icons! Here are all the submissions of this month:",
		"",
	)
}

func VotingIntro(votesAvailable, votesGiven int, resumed bool) string {
	lines := []string{
		"## Voting Process",
		"",
		fmt.Sprintf("You can vote for up to **%d** options in this ballot. You will rank your choices from 1 to %d. "+
			"Your number 1 choice will receive %d points. Subsequent choices will receive a diminishing amount of "+
			"points until the last choice, which will receive 1 point.", votesAvailable, votesAvailable, votesAvailable),
		"",
		"When you're ready, please click the start button below to begin the voting process.",
	}
	if resumed {
		lines = append(lines, "",
			fmt.Sprintf("-# **Note:** *You have already started voting. Clicking start again will resume your "+
				"voting process. You have used **%d** / **%d** votes.*", votesGiven, votesAvailable))
	}
	return joinLines(lines...)
}

// VotePage is the header of one page of remaining options. page is 1-based.
func VotePage(pointValue, page, totalPages int) string {
	lines := []string{fmt.Sprintf("Please select the icon you want to award %s to.", pluralPoints(pointValue))}
	if totalPages > 1 {
		lines = append(lines, "", fmt.Sprintf("**(Page %d/%d)**", page, totalPages))
	}
	return joinLines(lines...)
}

func OptionCard(opt models.Option) string {
	return joinLines(
		fmt.Sprintf("### %d. **%s**", opt.ID, opt.Title),
		fmt.Sprintf("**Created by %s**", Mention(opt.Author)),
		fmt.Sprintf("*Original Post: %s*", opt.ThreadURL),
	)
}

const (
	AlreadyVotedText = "You have already used all your votes for this ballot."
	FinishedText     = "You have finished voting. Thank you for your participation!"
	RejectedText     = "Nice try! That vote is not on your ballot anymore. This voting session has been closed."
	NoVotesText      = "No votes were cast in this ballot. No winners to display."
	BallotClosedText = "Voting for this ballot has closed. No more votes are accepted."
	VotingClosed     = "Voting Closed"
)

func StartedVoting(userID string) string {
	return Mention(userID) + " has started voting!"
}

func HasVoted(userID string) string {
	return Mention(userID) + " has voted!"
}

// Warning announces the upcoming closure relative to now.
func Warning(roleID string, closesAt, now time.Time) string {
	who := "Everyone"
	if roleID != "" {
		who = RoleMention(roleID)
	}
	return fmt.Sprintf("⚠️ %s, voting will close %s! Make sure to cast your votes now! ⚠️",
		who, humanize.RelTime(closesAt, now, "ago", "from now"))
}

func WinnersIntro(month, year string) string {
	return joinLines(
		fmt.Sprintf("# 🏆 %s %s Winners", month, year),
		"",
		"The votes are in! Here are the top icons of this ballot:",
	)
}

func RankHeading(rank, points int) string {
	return fmt.Sprintf("## %s place with %s", humanize.Ordinal(rank), pluralPoints(points))
}

// VotingStats lists the points of every option and, when sequences is not
// nil, how each user voted.
func VotingStats(results []models.Result, options map[int]models.Option, sequences []models.VoterRecord) string {
	lines := []string{"# Full Icon Vote Results", ""}

	if sequences != nil {
		lines = append(lines, "## User Voting Statistics:")
		lines = append(lines, SequenceLines(sequences)...)
	}

	lines = append(lines, "## Points Earned by Each Post:")
	for _, r := range results {
		link := fmt.Sprintf("option %d", r.OptionID)
		if opt, ok := options[r.OptionID]; ok {
			link = opt.ThreadURL
		}
		lines = append(lines, fmt.Sprintf("- Post: %s\n    - Points Earned: %s", link, humanize.Comma(int64(r.Points))))
	}

	lines = append(lines, "", "Thanks to everyone who participated in the vote! 🎉")
	return joinLines(lines...)
}

func SequenceLines(records []models.VoterRecord) []string {
	lines := make([]string, 0, len(records))
	for i, rec := range records {
		steps := make([]string, len(rec.VotingSequence))
		for j, id := range rec.VotingSequence {
			steps[j] = fmt.Sprint(id)
		}
		lines = append(lines, fmt.Sprintf("%d. %s voted in the sequence: %s",
			i+1, Mention(rec.UserID), strings.Join(steps, " -> ")))
	}
	return lines
}

func pluralPoints(n int) string {
	return fmt.Sprintf("%d %s", n, english.PluralWord(n, "point", ""))
}
