package domain

import "testing"

func TestValidDeviceType(t *testing.T) {
	for _, valid := range []string{DeviceSolar, DeviceMeter, DeviceAppliance} {
		if !ValidDeviceType(valid) {
			t.Errorf("ValidDeviceType(%q) = false", valid)
		}
	}
	for _, invalid := range []string{"", "Solar", "battery", "solar "} {
		if ValidDeviceType(invalid) {
			t.Errorf("ValidDeviceType(%q) = true", invalid)
		}
	}
}
