package ecb

import "testing"

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<gesmes:Envelope xmlns:gesmes="http://www.gesmes.org/xml/2002-08-01" xmlns="http://www.ecb.int/vocabulary/2002-08-01/eurofxref">
	<gesmes:subject>Reference rates</gesmes:subject>
	<Cube>
		<Cube time="2025-01-02">
			<Cube currency="USD" rate="1.0321"/>
			<Cube currency="JPY" rate="161.34"/>
			<Cube currency="GBP" rate="0.8294"/>
		</Cube>
	</Cube>
</gesmes:Envelope>`

func TestParseRates(t *testing.T) {
	rates, err := parseRates([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rates) != 3 {
		t.Errorf("expected 3 rates, got %d", len(rates))
	}
	if rates["USD"] != 1.0321 {
		t.Errorf("expected USD rate 1.0321, got %f", rates["USD"])
	}
	if rates["GBP"] != 0.8294 {
		t.Errorf("expected GBP rate 0.8294, got %f", rates["GBP"])
	}
}

func TestParseRatesEmptyFeed(t *testing.T) {
	if _, err := parseRates([]byte(`<Envelope><Cube/></Envelope>`)); err == nil {
		t.Errorf("expected error for feed without rates")
	}
}

func TestParseRatesMalformedXML(t *testing.T) {
	if _, err := parseRates([]byte(`not xml`)); err == nil {
		t.Errorf("expected error for malformed XML")
	}
}
