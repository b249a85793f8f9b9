package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

const sampleText = "The water cycle describes how water moves through Earth's systems. " +
	"Evaporation turns liquid water into vapor that rises into the atmosphere. " +
	"Condensation forms clouds as the vapor cools at altitude. " +
	"Precipitation returns the water to the surface as rain or snow."

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // AI calls can be slow, no timeout
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func dataField(body []byte, key string) map[string]interface{} {
	var envelope map[string]interface{}
	json.Unmarshal(body, &envelope)
	data, ok := envelope["data"].(map[string]interface{})
	if !ok {
		return nil
	}
	inner, _ := data[key].(map[string]interface{})
	return inner
}

func main() {
	color.Cyan("Starting Study API smoke test\n")

	// 1. Capability status
	color.Yellow("\n1. Capability status")
	resp, body, err := sendRequest("GET", "/capabilities/v1/status", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var statusResp map[string]interface{}
	json.Unmarshal(body, &statusResp)
	prettyPrint(statusResp)

	// 2. Process text into a note
	color.Yellow("\n2. Process text")
	resp, body, err = sendRequest("POST", "/notes/v1/process-text", map[string]interface{}{
		"text": sampleText,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	var noteID string
	if note := dataField(body, "note"); note != nil {
		noteID, _ = note["id"].(string)
		fmt.Printf("Note ID: %s\n", noteID)
		fmt.Printf("Summary: %s\n", note["summary"])
		fmt.Printf("Concepts: %v\n", note["concepts"])
	}

	// 3. Generate a quiz from the note
	var quizID, questionID string
	color.Yellow("\n3. Generate quiz")
	if noteID == "" {
		color.Red("Skipping quiz test: no note ID")
	} else {
		resp, body, err = sendRequest("POST", "/quizzes/v1/generate", map[string]interface{}{
			"noteId":        noteID,
			"questionCount": 3,
		})
		if err != nil {
			color.Red("Failed: %v", err)
		} else {
			color.Green("Status: %s", resp.Status)
			if quiz := dataField(body, "quiz"); quiz != nil {
				quizID, _ = quiz["id"].(string)
				fmt.Printf("Quiz ID: %s (local: %v)\n", quizID, quiz["isLocal"])
				if questions, ok := quiz["questions"].([]interface{}); ok && len(questions) > 0 {
					first, _ := questions[0].(map[string]interface{})
					questionID, _ = first["id"].(string)
					fmt.Printf("Questions: %d, first: %s\n", len(questions), first["question"])
				}
			}
		}
	}

	// 4. Submit an answer
	color.Yellow("\n4. Submit answer")
	if quizID == "" || questionID == "" {
		color.Red("Skipping answer test: quiz missing")
	} else {
		resp, body, err = sendRequest("POST", "/quizzes/v1/"+quizID+"/answers", map[string]interface{}{
			"questionId":  questionID,
			"answer":      "A",
			"timeSpentMs": 4000,
		})
		if err != nil {
			color.Red("Failed: %v", err)
		} else {
			color.Green("Status: %s", resp.Status)
			var answerResp map[string]interface{}
			json.Unmarshal(body, &answerResp)
			prettyPrint(answerResp)
		}
	}

	// 5. Build a study pack from a capture
	color.Yellow("\n5. Build study pack")
	resp, body, err = sendRequest("POST", "/packs/v1/build", map[string]interface{}{
		"title":       "The Water Cycle",
		"url":         "https://example.org/water-cycle",
		"textContent": sampleText,
	})
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		if pack := dataField(body, "pack"); pack != nil {
			fmt.Printf("Pack ID: %s\n", pack["id"])
			if artifacts, ok := pack["artifacts"].(map[string]interface{}); ok {
				fmt.Printf("Headline: %s\n", artifacts["headline"])
			}
		}
	}

	// 6. Analyze a page
	color.Yellow("\n6. Analyze page")
	resp, body, err = sendRequest("POST", "/analyzer/v1/page", map[string]interface{}{
		"text": "SHOCKING!!! You won't believe this one weird trick doctors hate!!!",
	})
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var analyzeResp map[string]interface{}
		json.Unmarshal(body, &analyzeResp)
		prettyPrint(analyzeResp)
	}

	color.Cyan("\nSmoke test complete")
}
