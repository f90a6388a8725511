// Package prompt holds the fixed prompt templates sent to the generation API.
package prompt

import "fmt"

// QuestionCount is the number of questions the question prompt asks for.
const QuestionCount = 5

const questionTemplate = "You are an interviewer. Generate %d interview questions for a %s role " +
	"with %s years of experience and skills in %s. The questions should " +
	"be in a serious tone without hints. Return each question on a new line."

const evaluationTemplate = "You are an expert interviewer. Evaluate the following answer based on correctness, clarity, and depth:\n\n" +
	"Question: %s\n" +
	"Candidate's Answer: %s\n\n" +
	"Provide a structured evaluation using the following format and ensure each section starts on a new line:\n\n" +
	"Score:\n(Give a score out of 10)\n\n" +
	"Mistakes:\n(List key mistakes or weaknesses in the answer, each mistake on a new line)\n\n" +
	"How to Improve:\n(Provide clear and actionable steps to enhance the response, each step on a new line)\n\n" +
	"Do NOT use markdown formatting like **bold**, *italics*, or lists with dashes (-) or asterisks (*). Only use plain text."

// BuildQuestionPrompt asks for QuestionCount serious interview questions, one per line.
func BuildQuestionPrompt(jobRole, experience, skills string) string {
	return fmt.Sprintf(questionTemplate, QuestionCount, jobRole, experience, skills)
}

// BuildEvaluationPrompt asks for a plain-text evaluation with Score, Mistakes
// and How to Improve sections, in that order.
func BuildEvaluationPrompt(question, answer string) string {
	return fmt.Sprintf(evaluationTemplate, question, answer)
}
