package feedback

import (
	"time"

	"github.com/jonathan/interview-coach/internal/types"
)

// Placeholder returns the canned feedback shown before real feedback exists.
// It has the same shape as stored feedback; callers mark its origin on the view.
func Placeholder(interviewID, userID string, now time.Time) *types.Feedback {
	return &types.Feedback{
		InterviewID: interviewID,
		UserID:      userID,
		Assessment: types.Assessment{
			TotalScore: 78,
			CategoryScores: []types.CategoryScore{
				{
					Name:    "Problem Solving",
					Score:   82,
					Comment: "Excellent approach to breaking down the problem. You identified edge cases and thought about scalability.",
				},
				{
					Name:    "Python Knowledge",
					Score:   80,
					Comment: "Strong grasp of Python syntax and built-in functions. Could improve on using more Pythonic idioms.",
				},
				{
					Name:    "Code Quality",
					Score:   75,
					Comment: "Clean code with good variable naming. Consider adding type hints and docstrings for better maintainability.",
				},
				{
					Name:    "Communication",
					Score:   76,
					Comment: "You explained your thought process well. Work on articulating the time and space complexity of your solution.",
				},
				{
					Name:    "Efficiency",
					Score:   72,
					Comment: "Solution works correctly but has room for optimization. Explore alternative approaches for better time complexity.",
				},
			},
			Strengths: []string{
				"Strong logical thinking and problem decomposition skills",
				"Good understanding of Python standard library and data structures",
				"Clear communication and ability to explain your reasoning",
				"Proactive in asking clarifying questions",
				"Handled follow-up questions and improvements well",
			},
			AreasForImprovement: []string{
				"Analyze and verbalize time and space complexity of solutions",
				"Practice using more advanced Python features (comprehensions, decorators, etc.)",
				"Write cleaner code with type hints and documentation",
				"Optimize solutions for edge cases and large datasets",
				"Practice explaining trade-offs between different approaches",
			},
			FinalAssessment: "Good problem-solving approach with solid Python fundamentals. You demonstrated a clear understanding of data structures and algorithms. " +
				"However, there's room for improvement in code optimization and explaining time complexities. " +
				"Your communication was clear, and you asked clarifying questions before diving into the solution.",
		},
		CreatedAt: now,
	}
}
