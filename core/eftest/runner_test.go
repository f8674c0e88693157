package eftest

import "testing"

func TestRunFixtureDir(t *testing.T) {
	batch, err := RunFixtureDir("testdata")
	if err != nil {
		t.Fatalf("RunFixtureDir: %v", err)
	}
	if batch.Total != 3 {
		t.Fatalf("expected 3 fixtures, found %d", batch.Total)
	}
	for _, r := range batch.Results {
		if !r.Passed {
			t.Errorf("fixture %s failed: %v", r.Name, r.Error)
		}
	}
	if batch.Failed != 0 {
		t.Fatalf("expected 0 failures, got %d: %+v", batch.Failed, batch.Results)
	}
}

func TestRunFixtureSSTORE(t *testing.T) {
	result := RunSingleFixture("testdata/sstore.json")
	if !result.Passed {
		t.Fatalf("sstore fixture failed: %v", result.Error)
	}
}

func TestRunFixtureRevert(t *testing.T) {
	result := RunSingleFixture("testdata/revert.json")
	if !result.Passed {
		t.Fatalf("revert fixture failed: %v", result.Error)
	}
	if !result.Reverted {
		t.Fatal("expected result.Reverted to be true")
	}
}

func TestRunFixtureCreate(t *testing.T) {
	result := RunSingleFixture("testdata/create.json")
	if !result.Passed {
		t.Fatalf("create fixture failed: %v", result.Error)
	}
}

func TestRunFixtureMismatchIsReported(t *testing.T) {
	fx := &Fixture{
		Pre: map[string]Account{
			"0x0000000000000000000000000000000000000002": {Code: "0x602a60005500"},
		},
		Call: CallSpec{
			To:  "0x0000000000000000000000000000000000000002",
			Gas: "0x186a0",
		},
		Post: Expectation{
			Storage: map[string]map[string]string{
				"0x0000000000000000000000000000000000000002": {"0x00": "0xff"},
			},
		},
	}
	result := RunFixture("inline", fx)
	if result.Passed {
		t.Fatal("expected a storage mismatch to fail the fixture")
	}
}
