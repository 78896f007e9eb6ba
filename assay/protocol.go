package assay

// Protocol describes an assay for the protocol catalog.
type Protocol struct {
	Type        Type        `json:"analysis_type"`
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	Wavelengths []string    `json:"wavelengths"`
	Unit        string      `json:"unit"`
	Formulas    []string    `json:"formulas"`
	References  []Reference `json:"references,omitempty"`
}

type Reference struct {
	Citation string `json:"citation"`
	DOI      string `json:"doi,omitempty"`
}

var protocols = []Protocol{
	{
		Type:     ChlorophyllAB,
		Title:    "Chlorophyll & Carotenoid",
		Subtitle: "Total Chlorophyll & Total Carotenoid",
		Formulas: []string{
			"Chl a (μg/mL) = 16.82 × A665.2 - 9.28 × A652.4",
			"Chl b (μg/mL) = 36.92 × A652.4 - 16.54 × A665.2",
			"Carotenoid (μg/mL) = (1000 × A470 - 1.91 × Chl a - 95.15 × Chl b) / 225",
		},
		References: []Reference{{
			Citation: "Lichtenthaler, H.K.; Buschmann, C. Chlorophylls and carotenoids: Measurement and characterization by UV-VIS spectroscopy. Curr. Protoc. Food Anal. Chem. 2001, 1, F4.3.1–F4.3.8.",
			DOI:      "10.1002/0471142913.faf0403s01",
		}},
	},
	{
		Type:     Carotenoid,
		Title:    "Carotenoid",
		Subtitle: "Total Carotenoid",
		Formulas: []string{
			"Carotenoid (μg/mL) = (1000 × A470 - 1.91 × Chl a - 95.15 × Chl b) / 225",
		},
		References: []Reference{{
			Citation: "Lichtenthaler, H.K.; Buschmann, C. Chlorophylls and carotenoids: Measurement and characterization by UV-VIS spectroscopy. Curr. Protoc. Food Anal. Chem. 2001, 1, F4.3.1–F4.3.8.",
			DOI:      "10.1002/0471142913.faf0403s01",
		}},
	},
	{
		Type:     TotalPhenol,
		Title:    "Total Phenolic Content",
		Subtitle: "Gallic acid standard curve",
		Formulas: []string{
			"Concentration = ((Absorbance × abs dilution) - b) / a × dilution",
		},
		References: []Reference{{
			Citation: "Severo, J.; Tiecher, A.; Chaves, F.C.; Silva, J.A.; Rombaldi, C.V. Gene transcript accumulation associated with physiological and chemical changes during developmental stages of strawberry cv. Camarosa. Food Chem. 2011, 126, 995–1000.",
			DOI:      "10.1016/j.foodchem.2010.11.107",
		}},
	},
	{
		Type:     TotalFlavonoid,
		Title:    "Total Flavonoid",
		Subtitle: "Quercetin standard curve",
		Formulas: []string{
			"Concentration = ((Absorbance × abs dilution) - b) / a × dilution",
		},
		References: []Reference{{
			Citation: "Chang, C.-C.; Yang, M.-H.; Wen, H.-M.; Chern, J.-C. Estimation of total flavonoid content in propolis by two complementary colometric methods. J. Food Drug Anal. 2002, 10, 3.",
			DOI:      "10.38212/2224-6614.2748",
		}},
	},
	{
		Type:     Glucosinolate,
		Title:    "Glucosinolate",
		Subtitle: "Total Glucosinolate",
		Formulas: []string{
			"Total glucosinolate (μmol/g) = (1.40 + 118.86 × (A425 × abs dilution)) × dilution",
		},
		References: []Reference{{
			Citation: "Mawlong, I., M. Sujith Kumar, B. Gurung, K. Singh, and D. Singh. 2017. A Simple Spectrophotometric Method for Estimating Total Glucosinolates in Mustard de-Oiled Cake. International Journal of Food Properties 20 (12): 3274–81.",
			DOI:      "10.1080/10942912.2017.1286353",
		}},
	},
	{
		Type:     DPPHScavenging,
		Title:    "DPPH Radical Scavenging",
		Subtitle: "DPPH Radical Scavenging",
		Formulas: []string{
			"Inhibition (%) = ((Control - Sample × abs dilution) / Control) × 100 × dilution",
		},
		References: []Reference{{
			Citation: "Blois, M.S. Antioxidant determinations by the use of a stable free radical. Nature 1958, 181, 1199–1200.",
			DOI:      "10.1038/1811199a0",
		}},
	},
	{
		Type:     Anthocyanin,
		Title:    "Anthocyanin",
		Subtitle: "Total Anthocyanin",
		Formulas: []string{
			"Anthocyanin (mg/g) = (A530 - A600) × abs dilution × V × n × Mw / (ε × m)",
			"V = extraction volume (mL), n = dilution factor, Mw = 449.2, ε = 26900, m = sample weight (g)",
		},
		References: []Reference{{
			Citation: "Yang, Y.-C., D.-W. Sun, H. Pu, N.-N. Wang, and Z. Zhu. 2015. Rapid Detection of Anthocyanin Content in Lychee Pericarp During Storage Using Hyperspectral Imaging Coupled with Model Fusion. Postharvest Biology and Technology 103: 55–65.",
			DOI:      "10.1016/j.postharvbio.2015.02.008",
		}},
	},
	{
		Type:     CAT,
		Title:    "Catalase Activity",
		Subtitle: "Catalase (CAT) Activity",
		Formulas: []string{
			"CAT activity (μmol/min/mL) = (ΔA240/min) × total volume × 1000 / (39.4 × enzyme volume)",
			"CAT activity (μmol/min/mg DW) = unit/mL / enzyme (mg/mL)",
		},
		References: []Reference{{
			Citation: "Aebi H. Catalase in vitro. Meth Enzymol. 1984;105:121–6.",
			DOI:      "10.1016/S0076-6879(84)05016-3",
		}},
	},
	{
		Type:     POD,
		Title:    "Peroxidase Activity",
		Subtitle: "Peroxidase (POD) Activity",
		Formulas: []string{
			"POD activity (μmol/min/mL) = (ΔA470/min) × total volume × 1000 / (26.6 × enzyme volume)",
			"POD activity (μmol/min/mg DW) = unit/mL / enzyme (mg/mL)",
		},
		References: []Reference{{
			Citation: "Rao, M.V.; Paliyath, G.; Ormrod, D.P. Ultraviolet-B-and ozone-induced biochemical changes in antioxidant enzymes of Arabidopsis thaliana. Plant Physiol. 1996, 110, 125–136.",
			DOI:      "10.1104/pp.110.1.125",
		}},
	},
	{
		Type:     SOD,
		Title:    "Superoxide Dismutase Activity",
		Subtitle: "Superoxide Dismutase (SOD) Activity",
		Formulas: []string{
			"SOD inhibition (%) = ((Control - Sample) / Control) × 100",
			"SOD activity (unit/mL) = (inhibition × total volume) / (50 × enzyme volume)",
			"SOD activity (unit/mg DW) = unit/mL / enzyme (mg/mL)",
		},
		References: []Reference{{
			Citation: "Gupta, A.S.; Webb, R.P.; Holaday, A.S.; Allen, R.D. Overexpression of superoxide dismutase protects plants from oxidative stress. Plant Physiol. 1993, 103, 1067–1073.",
			DOI:      "10.1104/pp.103.4.1067",
		}},
	},
	{
		Type:     H2O2,
		Title:    "Hydrogen Peroxide Content",
		Subtitle: "H2O2 standard curve",
		Formulas: []string{
			"Concentration = ((Absorbance × abs dilution) - b) / a × dilution",
		},
		References: []Reference{
			{
				Citation: "Alexieva, V., Sergiev, I., Mapelli, S., & Karanov, E. (2001). The effect of drought and ultraviolet radiation on growth and stress markers in pea and wheat. Plant, Cell & Environment, 24(12), 1337-1344.",
				DOI:      "10.1046/j.1365-3040.2001.00778.x",
			},
			{
				Citation: "Junglee, S., Urban, L., Sallanon, H., & Lopez-Lauri, F. (2014). Optimized assay for hydrogen peroxide determination in plant tissue using potassium iodide. American Journal of Analytical Chemistry, 5(11), 730-736.",
				DOI:      "10.4236/ajac.2014.511081",
			},
		},
	},
}

// Protocols returns the catalog in presentation order.
func Protocols() []Protocol {
	out := make([]Protocol, 0, len(protocols))
	for _, p := range protocols {
		out = append(out, p.withRegistryData())
	}
	return out
}

func LookupProtocol(t Type) (Protocol, bool) {
	for _, p := range protocols {
		if p.Type == t {
			return p.withRegistryData(), true
		}
	}
	return Protocol{}, false
}

func (p Protocol) withRegistryData() Protocol {
	p.Wavelengths = p.Type.Wavelengths()
	p.Unit = p.Type.Unit()
	return p
}
