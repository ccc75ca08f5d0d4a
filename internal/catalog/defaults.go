package catalog

import "github.com/kamusis/socsel/internal/resource"

// Defaults returns a fresh copy of the built-in sample catalog with nothing
// selected. Callers may mutate the result freely.
func Defaults() *State {
	s := &State{
		Sensors:   defaultSensors(),
		Functions: defaultFunctions(),
		Features:  defaultFeatures(),
		SoCs:      defaultSoCs(),
		Selection: NewSelection(),
	}
	return s
}

// DefaultSoCs returns the built-in SoC portfolio. Used to back-fill state
// files written before SoCs were stored.
func DefaultSoCs() []SoC { return defaultSoCs() }

func defaultSensors() []Sensor {
	return []Sensor{
		NewSensor("sensor_rear_cam", "Sensor 1", resource.Vector{ISP: 500, Dewarp: 500, DRAMBW: 1}),
		NewSensor("sensor_radar_gen4", "Sensor 2", resource.Vector{KDMIPS: 10, DRAMBW: 0.7}),
		NewSensor("sensor_accelerometer", "Sensor 3", resource.Vector{KDMIPS: 1, DRAMBW: 0.1}),
		NewSensor("sensor_fc_mc_eco", "Sensor 4", resource.Vector{ISP: 800, DRAMBW: 1.2, TOPS: 2}),
		NewSensor("sensor_fc_optimized", "Sensor 5", resource.Vector{ISP: 1200, DRAMBW: 1.8, TOPS: 4}),
	}
}

func defaultFunctions() []Function {
	return []Function{
		NewFunction("func_object_detection", "Function_1", resource.Vector{KDMIPS: 20, TOPS: 4, DRAMBW: 1.5}),
		NewFunction("func_lane_detection", "Function_2", resource.Vector{KDMIPS: 15, TOPS: 2, DRAMBW: 1}),
		NewFunction("func_tsr", "Function_3", resource.Vector{KDMIPS: 10, TOPS: 1, DRAMBW: 0.5}),
		NewFunction("func_sensor_fusion", "Function_4", resource.Vector{KDMIPS: 30, DRAMBW: 2}),
		NewFunction("func_path_planning", "Function_5", resource.Vector{KDMIPS: 25, DRAMBW: 1.2}),
		NewFunction("func_vehicle_control", "Function_6", resource.Vector{KDMIPS: 12, DRAMBW: 0.8}),
		NewFunction("func_park_assist_logic", "Function_7", resource.Vector{KDMIPS: 18, ISP: 500, Dewarp: 500, GPU: 100, DRAMBW: 2.2}),
		NewFunction("func_dms", "Function_8", resource.Vector{KDMIPS: 22, TOPS: 3, ISP: 300, GPU: 50, DRAMBW: 1.8}),
		NewFunction("func_svm", "Function_9", resource.Vector{KDMIPS: 35, ISP: 2000, Dewarp: 1000, GPU: 200, DRAMBW: 3}),
		NewFunction("func_aeb_logic", "Function_10", resource.Vector{KDMIPS: 28, TOPS: 5, DRAMBW: 2.5}),
		NewFunction("func_acc_logic", "Function_11", resource.Vector{KDMIPS: 16, DRAMBW: 1.1}),
		NewFunction("func_lka_logic", "Function_12", resource.Vector{KDMIPS: 20, TOPS: 2.5, DRAMBW: 1.6}),
	}
}

func defaultFeatures() []Feature {
	const (
		drivingDesc = "A sample description for this driving feature."
		parkingDesc = "A sample description for this parking feature."
	)
	return []Feature{
		NewFeature("feat_aeb", "Feature_d_1", FeatureMeta{
			Description:          drivingDesc,
			Category:             Driving,
			MandatoryFunctionIDs: []string{"func_aeb_logic"},
			MandatorySensorIDs:   []string{"sensor_fc_mc_eco", "sensor_radar_gen4"},
		}),
		NewFeature("feat_lka", "Feature_d_2", FeatureMeta{
			Description:          drivingDesc,
			Category:             Driving,
			MandatoryFunctionIDs: []string{"func_lka_logic"},
			MandatorySensorIDs:   []string{"sensor_fc_mc_eco"},
		}),
		NewFeature("feat_acc", "Feature_d_3", FeatureMeta{
			Description:          drivingDesc,
			Category:             Driving,
			MandatoryFunctionIDs: []string{"func_acc_logic"},
			MandatorySensorIDs:   []string{"sensor_radar_gen4"},
		}),
		NewFeature("feat_traffic_jam", "Feature_d_4", FeatureMeta{
			Description:          drivingDesc,
			Category:             Driving,
			MandatoryFunctionIDs: []string{"func_acc_logic", "func_lka_logic"},
			MandatorySensorIDs:   []string{"sensor_fc_mc_eco", "sensor_radar_gen4"},
		}),
		NewFeature("feat_driving_ncap", "Feature_d_5", FeatureMeta{
			Description:          "A feature with a set of mandatory components.",
			Category:             Driving,
			MandatoryFunctionIDs: []string{"func_aeb_logic", "func_object_detection", "func_lane_detection"},
			MandatorySensorIDs:   []string{"sensor_radar_gen4", "sensor_accelerometer", "sensor_fc_mc_eco"},
		}),
		NewFeature("feat_auto_park", "Feature_p_1", FeatureMeta{
			Description:          parkingDesc,
			Category:             Parking,
			MandatoryFunctionIDs: []string{"func_park_assist_logic"},
			MandatorySensorIDs:   []string{"sensor_rear_cam"},
		}),
	}
}

func defaultSoCs() []SoC {
	return []SoC{
		{ID: "soc_entry", Name: "SoC 001", Vendor: "Alpha", Tier: TierEntry,
			Resources: resource.Vector{KDMIPS: 50, TOPS: 5, ISP: 1500, Dewarp: 500, GPU: 100, DRAMBW: 8}},
		{ID: "soc_mid", Name: "SoC 002", Vendor: "Beta", Tier: MidRange,
			Resources: resource.Vector{KDMIPS: 100, TOPS: 15, ISP: 3000, Dewarp: 1500, GPU: 300, DRAMBW: 15}},
		{ID: "soc_high", Name: "SoC 003", Vendor: "gamma", Tier: HighPerformance,
			Resources: resource.Vector{KDMIPS: 250, TOPS: 40, ISP: 6000, Dewarp: 3000, GPU: 800, DRAMBW: 30}},
		{ID: "soc_ultra", Name: "SoC 004", Vendor: "Alpha", Tier: HighPerformance,
			Resources: resource.Vector{KDMIPS: 400, TOPS: 60, ISP: 8000, Dewarp: 5000, GPU: 1200, DRAMBW: 50}},
		{ID: "soc_delta_mid", Name: "SoC 005", Vendor: "Delta", Tier: MidRange,
			Resources: resource.Vector{KDMIPS: 150, TOPS: 20, ISP: 4000, Dewarp: 2000, GPU: 400, DRAMBW: 20}},
	}
}
