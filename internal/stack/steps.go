package stack

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// EnvStepResults names the file rebase-exec children append their outcome
// to, one JSON object per line
const EnvStepResults = "STACK_PR_STEP_RESULTS"

func appendStepResult(path string, step *StepResult) error {
	data, err := json.Marshal(step)
	if err != nil {
		return fmt.Errorf("failed to encode step result: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("failed to record step result: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("failed to record step result: %w", err)
	}
	return f.Close()
}

// readStepResults returns the PR result of every recorded step by URL
func readStepResults(path string) (map[string]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read step results: %w", err)
	}
	defer f.Close()

	results := make(map[string]Result)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var step StepResult
		if err := json.Unmarshal(scanner.Bytes(), &step); err != nil {
			return nil, fmt.Errorf("failed to decode step result: %w", err)
		}
		results[step.PR.URL] = step.PR.Result
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read step results: %w", err)
	}
	return results, nil
}
