package score_test

import (
	"fmt"

	"github.com/stavekit/stavekit/pkg/score"
)

func ExampleVoice() {
	// A strict voice fills its time signature exactly.
	v := score.NewVoice(score.CommonTime)
	for _, key := range []string{"c/4", "e/4", "g/4", "c/5"} {
		n, _ := score.NewNote([]string{key}, "4", 0)
		_ = v.AddTickable(n)
	}

	fmt.Println("complete:", v.IsComplete())
	fmt.Println("tickables:", len(v.Tickables()))
	// Output:
	// complete: true
	// tickables: 4
}

func ExampleApplyAccidentals() {
	// In G major the f# needs no accidental, but the f natural cancels
	// the signature.
	v := score.NewVoice(score.CommonTime)
	for _, key := range []string{"f#/5", "f/5"} {
		n, _ := score.NewNote([]string{key}, "2", 0)
		_ = v.AddTickable(n)
	}
	_ = score.ApplyAccidentals([]*score.Voice{v}, "G")

	for i, tk := range v.Tickables() {
		count := 0
		for _, m := range tk.Modifiers() {
			if _, ok := m.(*score.Accidental); ok {
				count++
			}
		}
		fmt.Printf("note %d: %d accidental(s)\n", i, count)
	}
	// Output:
	// note 0: 0 accidental(s)
	// note 1: 1 accidental(s)
}

func ExampleNumAccidentals() {
	for _, key := range []string{"C", "D", "Eb", "f#m"} {
		n, _ := score.NumAccidentals(key)
		fmt.Printf("%s: %d\n", key, n)
	}
	// Output:
	// C: 0
	// D: 2
	// Eb: -3
	// f#m: 3
}
